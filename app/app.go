package app

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultLogLevel = logrus.WarnLevel

var (
	configFile     string
	verbosityLevel string
)

func Run(in io.Reader, out, stderr io.Writer) error {
	c := RootCommand(in, out, stderr)
	return c.Execute()
}

func RootCommand(in io.Reader, out, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "maps-location-qr",
		Short:         "QR codes for Google Maps locations",
		SilenceErrors: true,
	}

	cmd.SetOutput(out)
	cmd.Root().SilenceUsage = true

	config := &Config{}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(config); err != nil {
			return err
		}

		level := verbosityLevel
		if level == "" {
			level = config.Logging.Level
		}
		if err := setUpLogger(stderr, level); err != nil {
			return err
		}

		return nil
	}

	cmd.AddCommand(NewCmdConfig(out, config))
	cmd.AddCommand(NewCmdDecode(out))
	cmd.AddCommand(NewCmdGenerate(in, out, logrus.WithField("cmd", "generate"), config))
	cmd.AddCommand(NewCmdServer(out, logrus.WithField("cmd", "server"), config))
	cmd.AddCommand(NewCmdVersion(out))

	cmd.PersistentFlags().StringVarP(&verbosityLevel, "verbosity", "v", "", "Log level (debug, info, warn, error, fatal, panic)")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file")

	return cmd
}

// setUpLogger sends log records to stderr so they never interleave with the
// prompts written to stdout.
func setUpLogger(out io.Writer, level string) error {
	if level == "" {
		level = defaultLogLevel.String()
	}
	logrus.SetOutput(out)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	logrus.SetLevel(lvl)
	return nil
}

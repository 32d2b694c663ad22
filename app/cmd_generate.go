package app

import (
	"context"
	"fmt"
	"io"

	"github.com/mapsqr/maps-location-qr/prompt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	dir       string
	latitude  string
	longitude string
}

func NewCmdGenerate(in io.Reader, out io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Prompt for a location and save its QR code as a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGenerate(context.Background(), in, out, logger, afero.NewOsFs(), config, opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Output directory or s3://bucket/prefix (skips the prompt)")
	cmd.Flags().StringVar(&opts.latitude, "latitude", "", "Latitude (skips the prompt when longitude is also set)")
	cmd.Flags().StringVar(&opts.longitude, "longitude", "", "Longitude (skips the prompt when latitude is also set)")

	return cmd
}

func doGenerate(ctx context.Context, in io.Reader, out io.Writer, logger logrus.FieldLogger, fs afero.Fs, config *Config, opts *generateOptions, changed func(string) bool) error {
	p, err := newPipeline(config)
	if err != nil {
		return err
	}
	s, err := sink(logger, fs, config)
	if err != nil {
		return errors.Wrap(err, "output cannot be initialized")
	}

	promptOpts := []prompt.Option{prompt.WithLogger(logger)}
	if changed("dir") {
		promptOpts = append(promptOpts, prompt.WithDir(opts.dir))
	}
	if changed("latitude") && changed("longitude") {
		promptOpts = append(promptOpts, prompt.WithCoordinates(opts.latitude, opts.longitude))
	}
	prompter := prompt.New(in, out, promptOpts...)

	fmt.Fprintln(out, "Welcome to QR Code Generator for Google Maps Location!")

	target, err := prompter.SavePath(s)
	if err != nil {
		return exitOr(out, err)
	}
	c, err := prompter.Coordinates()
	if err != nil {
		return exitOr(out, err)
	}

	mapsURL := p.formatter.URL(c)
	logger = logger.WithFields(logrus.Fields{"target": target, "url": mapsURL})

	blob, err := p.encoder.Encode(mapsURL)
	if err != nil {
		logger.WithError(err).Debug("Encoding failed")
		fmt.Fprintf(out, "Error with QR code data: %v\n", err)
		return nil
	}
	if err := s.Write(ctx, target, blob); err != nil {
		logger.WithError(err).Debug("Writing failed")
		fmt.Fprintf(out, "Error saving QR code file: %v\n", err)
		return nil
	}

	logger.WithField("bytes", len(blob)).Info("QR code written")
	fmt.Fprintf(out, "QR Code generated and saved as '%s'\n", target)
	return nil
}

// exitOr turns the user's exit request into a clean return.
func exitOr(out io.Writer, err error) error {
	if err == prompt.ErrExit {
		fmt.Fprintln(out, "Exiting the application...")
		return nil
	}
	return err
}

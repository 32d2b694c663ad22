package app

import (
	"fmt"
	"io"
	"os"

	"github.com/mapsqr/maps-location-qr/qr"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var file string

func NewCmdDecode(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Print the payload of a QR code image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doDecode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "PNG file")

	return cmd
}

func doDecode(out io.Writer) error {
	if file == "" {
		return errors.New("parameter empty")
	}
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	defer f.Close()

	payload, err := qr.Decode(f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, payload)
	return err
}

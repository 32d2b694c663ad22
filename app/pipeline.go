package app

import (
	"os"
	"strconv"

	"github.com/mapsqr/maps-location-qr/location"
	"github.com/mapsqr/maps-location-qr/output"
	"github.com/mapsqr/maps-location-qr/qr"
	"github.com/mapsqr/maps-location-qr/s3"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// pipeline bundles the pieces shared by the terminal and browser flows.
type pipeline struct {
	encoder   *qr.Encoder
	formatter *location.Formatter
}

func newPipeline(config *Config) (*pipeline, error) {
	encoder, err := qr.NewEncoder(config.QRConfig())
	if err != nil {
		return nil, err
	}
	formatter, err := location.NewFormatter(config.Maps.BaseURL)
	if err != nil {
		return nil, err
	}
	return &pipeline{encoder: encoder, formatter: formatter}, nil
}

// sink writes to the local filesystem, or to S3 for s3:// destinations.
func sink(logger logrus.FieldLogger, fs afero.Fs, config *Config) (output.Sink, error) {
	sess, err := awsSession(logger, config.AWS.S3Profile, config.AWS.S3Endpoint)
	if err != nil {
		return nil, err
	}
	return &output.Switch{
		File:   output.NewFileSink(fs),
		Object: output.NewObjectSink(s3.New(sess)),
	}, nil
}

type logrusProxy struct {
	logger logrus.FieldLogger
}

func (l logrusProxy) Log(args ...interface{}) {
	l.logger.WithField("client", "aws").Debug(args...)
}

// awsSession returns a session using NewSessionWithOptions meaning that it
// relies on the SDK defaults but also the user config files and environment.
//
// AWS_S3_FORCE_PATH_STYLE is not looked up by the SDK; it is honoured here so
// S3-compatible servers such as MinIO work without more configuration.
func awsSession(logger logrus.FieldLogger, profile, endpoint string) (*session.Session, error) {
	options := session.Options{}
	if profile != "" {
		options.Profile = profile
	}
	if endpoint != "" {
		options.Config.WithEndpoint(endpoint)
	}
	if res, ok := os.LookupEnv("AWS_S3_FORCE_PATH_STYLE"); ok {
		enabled, _ := strconv.ParseBool(res)
		options.Config.WithS3ForcePathStyle(enabled)
	}
	if logrus.GetLevel() == logrus.DebugLevel {
		options.Config.WithCredentialsChainVerboseErrors(true)
	}
	options.Config.WithLogger(logrusProxy{logger: logger})
	return session.NewSessionWithOptions(options)
}

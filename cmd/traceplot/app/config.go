package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath     string
	TracePath  string
	SessionID  int64
	OutputFile string
	Format     ImageFormat
	MinT       *float64
	MaxT       *float64
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	var minT, maxT float64
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.TracePath, "t", "", "Path to a CSV trace file (instead of a database)")
	flag.Int64Var(&c.SessionID, "s", 1, "Session ID")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.Float64Var(&minT, "min-t", 0, "Start of the trace time range to plot (seconds)")
	flag.Float64Var(&maxT, "max-t", 0, "End of the trace time range to plot (seconds)")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min-t" {
			c.MinT = &minT
		}
		if f.Name == "max-t" {
			c.MaxT = &maxT
		}
	})

	var err error
	switch {
	case c.DBPath == "" && c.TracePath == "":
		err = errors.New("db path or trace file is required")
	case c.DBPath != "" && c.TracePath != "":
		err = errors.New("db path and trace file are mutually exclusive")
	case c.DBPath != "" && c.SessionID <= 0:
		err = errors.New("session id is required")
	case c.OutputFile == "":
		err = errors.New("output file is required")
	default:
		if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
			err = fmt.Errorf("invalid image format: %s", imageFormat)
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/datasource/elasticsearch"
	"github.com/go-sif/esframe/datasource/file"
	"github.com/go-sif/esframe/ml"
)

// connector opens the DataSource and model client the commands run against
type connector func(conf *Config, logger *slog.Logger) (esframe.DataSource, ml.ModelClient, error)

// connectStore opens the offline files described by conf if any, and otherwise connects
// to the cluster described by conf
func connectStore(conf *Config, logger *slog.Logger) (esframe.DataSource, ml.ModelClient, error) {
	if conf.Files != "" {
		source, err := file.CreateDataSource(&file.Conf{
			Glob:          conf.Files,
			MappingFile:   conf.MappingFile,
			FieldCapsFile: conf.FieldCapsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return source, nil, nil
	}
	source, err := elasticsearch.CreateDataSource(&elasticsearch.Conf{
		Addresses: conf.Addresses,
		Username:  conf.Username,
		Password:  conf.Password,
		APIKey:    conf.APIKey,
		CloudID:   conf.CloudID,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return source, source, nil
}

func main() {
	rootCmd := newRootCmd(os.Stdout, connectStore)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

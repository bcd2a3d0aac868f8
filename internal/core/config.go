package core

import (
	"log/slog"

	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core/extract"
)

// NewProcessorFromConfig builds a Processor honoring the schema file and minimum
// confidence in cfg. Extra options are applied after the configured ones.
func NewProcessorFromConfig(cfg common.ExtractConfig, logger *slog.Logger, opts ...Option) (*Processor, *extract.SchemaExtractor, error) {
	var schemaOpts []extract.Option
	if cfg.SchemaFile != "" {
		custom, err := extract.LoadSchemaFile(cfg.SchemaFile)
		if err != nil {
			return nil, nil, err
		}
		schemaOpts = append(schemaOpts, extract.WithSchemas(custom))
	}
	schemas, err := extract.NewSchemaExtractor(logger, schemaOpts...)
	if err != nil {
		return nil, nil, err
	}

	all := append([]Option{
		WithSchemaExtractor(schemas),
		WithMinConfidence(cfg.MinConfidence),
	}, opts...)
	return NewProcessor(logger, all...), schemas, nil
}

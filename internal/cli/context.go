// Package cli implements the plannerctl subcommands. Commands run the same services as the
// HTTP API against request files, without storage or caching.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/study-planner-api/internal/service"
	"github.com/noah-isme/study-planner-api/pkg/config"
)

// Context carries the services shared by every command.
type Context struct {
	Config       *config.Config
	Logger       *zap.Logger
	Availability *service.AvailabilityService
	Plans        *service.PlanService
	Exports      *service.ExportService
	Tokens       *service.TokenService
	Out          io.Writer
}

// NewContext builds services from configuration.
func NewContext(cfg *config.Config, logger *zap.Logger, tokenIssuer string) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults, err := service.PlannerDefaultsFromConfig(cfg.Planner)
	if err != nil {
		return nil, err
	}
	metrics := service.NewMetricsService()
	return &Context{
		Config:       cfg,
		Logger:       logger,
		Availability: service.NewAvailabilityService(nil, nil, metrics, defaults, 0, nil, logger),
		Plans:        service.NewPlanService(metrics, defaults.AdjustMaxEnd, nil, logger),
		Exports:      service.NewExportService(logger, nil, nil),
		Tokens:       service.NewTokenService(cfg.JWT.Secret, tokenIssuer),
		Out:          os.Stdout,
	}, nil
}

// readRequest decodes a YAML or JSON request file into dest using dest's JSON field names.
// "-" reads standard input.
func readRequest(path string, dest interface{}) error {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return decodeRequest(raw, dest)
}

func decodeRequest(raw []byte, dest interface{}) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalise request: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(normalized))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// writeOutput writes body to path, or to the context writer when path is empty.
func (c *Context) writeOutput(path string, body []byte) error {
	if path == "" {
		_, err := c.Out.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.Logger.Info("output written", zap.String("path", path), zap.Int("bytes", len(body)))
	return nil
}

func (c *Context) printJSON(path string, v interface{}) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.writeOutput(path, append(body, '\n'))
}

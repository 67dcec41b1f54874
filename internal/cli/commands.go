package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/service"
)

type CalculateCmd struct {
	Input  string `arg:"" help:"Request file (YAML or JSON, '-' for stdin)."`
	Format string `help:"Output format." enum:"json,csv,pdf" default:"json"`
	Output string `short:"o" help:"Write output to a file instead of stdout." type:"path"`
}

func (c *CalculateCmd) Run(ctx *Context) error {
	var req dto.CalculateAvailabilityRequest
	if err := readRequest(c.Input, &req); err != nil {
		return err
	}
	resp, err := ctx.Availability.Calculate(context.Background(), req)
	if err != nil {
		return err
	}
	if c.Format == "json" {
		return ctx.printJSON(c.Output, resp)
	}
	if c.Format == service.ExportFormatPDF && c.Output == "" {
		return fmt.Errorf("--output is required for pdf")
	}
	file, err := ctx.Exports.RenderAvailability(resp, c.Format)
	if err != nil {
		return err
	}
	return ctx.writeOutput(c.Output, file.Body)
}

type AllocateCmd struct {
	Input  string `arg:"" help:"Slots and items file (YAML or JSON, '-' for stdin)."`
	Output string `short:"o" help:"Write output to a file instead of stdout." type:"path"`
}

func (c *AllocateCmd) Run(ctx *Context) error {
	var req dto.AllocateRequest
	if err := readRequest(c.Input, &req); err != nil {
		return err
	}
	resp, err := ctx.Plans.Allocate(context.Background(), req)
	if err != nil {
		return err
	}
	return ctx.printJSON(c.Output, resp)
}

type ValidateCmd struct {
	Input  string `arg:"" help:"New and existing plan items (YAML or JSON, '-' for stdin)."`
	Output string `short:"o" help:"Write output to a file instead of stdout." type:"path"`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	var req dto.ValidateOverlapsRequest
	if err := readRequest(c.Input, &req); err != nil {
		return err
	}
	resp, err := ctx.Plans.ValidateOverlaps(context.Background(), req)
	if err != nil {
		return err
	}
	return ctx.printJSON(c.Output, resp)
}

type AdjustCmd struct {
	Input  string `arg:"" help:"New and existing plan items (YAML or JSON, '-' for stdin)."`
	MaxEnd string `name:"max-end" help:"Latest end time for shifted items (HH:mm); overrides the file."`
	Sort   bool   `help:"Order new items by date and start before adjusting."`
	Output string `short:"o" help:"Write output to a file instead of stdout." type:"path"`
}

func (c *AdjustCmd) Run(ctx *Context) error {
	var req dto.AdjustOverlapsRequest
	if err := readRequest(c.Input, &req); err != nil {
		return err
	}
	if c.MaxEnd != "" {
		req.MaxEndTime = c.MaxEnd
	}
	if c.Sort {
		req.SortCandidates = true
	}
	resp, err := ctx.Plans.AdjustOverlaps(context.Background(), req)
	if err != nil {
		return err
	}
	return ctx.printJSON(c.Output, resp)
}

type TokenCmd struct {
	User string        `required:"" help:"User ID placed in the token."`
	Role string        `default:"STUDENT" enum:"SUPERADMIN,ADMIN,TEACHER,STUDENT" help:"Role claim."`
	TTL  time.Duration `name:"ttl" default:"1h" help:"Token lifetime."`
}

func (c *TokenCmd) Run(ctx *Context) error {
	if ctx.Config.Env == "production" {
		return fmt.Errorf("token issuing is disabled in production")
	}
	token, err := ctx.Tokens.Issue(strings.TrimSpace(c.User), models.UserRole(c.Role), c.TTL)
	if err != nil {
		return err
	}
	return ctx.writeOutput("", []byte(token+"\n"))
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/pkg/config"
)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	ctx, err := NewContext(&config.Config{Env: config.EnvDevelopment, JWT: config.JWTConfig{Secret: "secret"}}, nil, "test")
	require.NoError(t, err)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodeRequestAcceptsYAMLWithJSONNames(t *testing.T) {
	var req dto.CalculateAvailabilityRequest
	err := decodeRequest([]byte(`
periodStart: "2024-01-01"
periodEnd: "2024-01-07"
weeklyBlocks:
  - dayOfWeek: 1
    start: "09:00"
    end: "18:00"
`), &req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", req.PeriodStart)
	require.Len(t, req.WeeklyBlocks, 1)
	assert.Equal(t, 1, *req.WeeklyBlocks[0].DayOfWeek)

	assert.Error(t, decodeRequest([]byte(`periodStrat: "2024-01-01"`), &req))
}

func TestCalculateCmdJSON(t *testing.T) {
	ctx, out := newTestContext(t)
	input := writeFile(t, "period.yaml", "periodStart: \"2024-01-01\"\nperiodEnd: \"2024-01-07\"\n")

	require.NoError(t, (&CalculateCmd{Input: input, Format: "json"}).Run(ctx))

	var resp dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Len(t, resp.Days, 7)
}

func TestCalculateCmdCSVAndPDF(t *testing.T) {
	ctx, out := newTestContext(t)
	input := writeFile(t, "period.json", `{"periodStart":"2024-01-01","periodEnd":"2024-01-02"}`)

	require.NoError(t, (&CalculateCmd{Input: input, Format: "csv"}).Run(ctx))
	assert.True(t, strings.HasPrefix(out.String(), "Date,Weekday"))

	assert.Error(t, (&CalculateCmd{Input: input, Format: "pdf"}).Run(ctx))

	target := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, (&CalculateCmd{Input: input, Format: "pdf", Output: target}).Run(ctx))
	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAllocateAndAdjustCmds(t *testing.T) {
	ctx, out := newTestContext(t)
	allocInput := writeFile(t, "alloc.yaml", `
slots:
  - {index: 0, capacityMinutes: 30}
  - {index: 1, capacityMinutes: 90}
items:
  - {id: a, durationMinutes: 20}
  - {id: b, durationMinutes: 40}
`)
	require.NoError(t, (&AllocateCmd{Input: allocInput}).Run(ctx))
	var alloc dto.AllocateResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &alloc))
	assert.Len(t, alloc.Assignments, 2)

	out.Reset()
	adjustInput := writeFile(t, "adjust.yaml", `
newItems:
  - {date: "2024-02-01", start: "10:30", end: "11:30", ref: n}
existing:
  - {date: "2024-02-01", start: "10:00", end: "11:00"}
`)
	require.NoError(t, (&AdjustCmd{Input: adjustInput, MaxEnd: "11:30"}).Run(ctx))
	var adjusted dto.AdjustOverlapsResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &adjusted))
	require.Len(t, adjusted.Unadjustable, 1)

	out.Reset()
	require.NoError(t, (&ValidateCmd{Input: adjustInput}).Run(ctx))
	assert.Contains(t, out.String(), `"hasConflicts": true`)
}

func TestTokenCmd(t *testing.T) {
	ctx, out := newTestContext(t)
	require.NoError(t, (&TokenCmd{User: "stu-1", Role: "STUDENT", TTL: time.Minute}).Run(ctx))

	claims, err := ctx.Tokens.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.UserID)

	ctx.Config.Env = config.EnvProduction
	assert.Error(t, (&TokenCmd{User: "stu-1", Role: "STUDENT"}).Run(ctx))
}

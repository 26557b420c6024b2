package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/importer"
)

// ImportResult summarizes an applied import
type ImportResult struct {
	Mode     importer.Mode    `json:"mode"`
	Source   string           `json:"source"`
	Imported []models.Holding `json:"imported"`
	Errors   []string         `json:"errors"`
	Ledger   int              `json:"ledger_size"`
}

// Ledger returns a copy of the holdings ledger
func (c *Controller) Ledger() models.Ledger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Holdings.Clone()
}

// AddHolding resolves a manually entered holding and merges it into the
// ledger. The ledger is persisted immediately.
func (c *Controller) AddHolding(d models.HoldingDraft) (models.Holding, error) {
	h := d.Resolve()
	if h.Ticker == "" {
		c.withLock(func() { c.setStatus(AreaSettings, StatusError, ErrInvalidHolding.Error()) })
		return models.Holding{}, ErrInvalidHolding
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.applyLedger(c.settings.Holdings.Merge([]models.Holding{h})); err != nil {
		c.setStatus(AreaSettings, StatusError, err.Error())
		return models.Holding{}, err
	}
	c.setStatus(AreaSettings, StatusSuccess, fmt.Sprintf("Saved %s (%s)", h.Ticker, h.Source))
	return h, nil
}

// RemoveHolding drops one (ticker, source) position and persists the ledger
func (c *Controller) RemoveHolding(ticker, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings.Holdings.Remove(ticker, source)
	if len(next) == len(c.settings.Holdings) {
		return nil
	}
	if err := c.applyLedger(next); err != nil {
		c.setStatus(AreaSettings, StatusError, err.Error())
		return err
	}
	c.setStatus(AreaSettings, StatusSuccess, fmt.Sprintf("Removed %s (%s)", models.NormalizeTicker(ticker), models.NormalizeSource(source)))
	return nil
}

// applyLedger persists and then installs a new ledger. Must be called with mu held.
func (c *Controller) applyLedger(l models.Ledger) error {
	next := c.settings.WithHoldings(l)
	if err := c.persistSettings(next); err != nil {
		return err
	}
	c.settings = next
	return nil
}

// Import parses structured content and merges it. Smart imports go
// through SmartImport since they need an agent round trip.
func (c *Controller) Import(ctx context.Context, mode importer.Mode, fileName string, r io.Reader, source string) (ImportResult, error) {
	if mode == importer.ModeSmart {
		return c.SmartImport(ctx, fileName, r, source)
	}

	text, err := c.readFile(r)
	if err != nil {
		c.finishImport(mode, source, nil, err)
		return ImportResult{Mode: mode}, err
	}

	var parsed importer.ParseResult
	switch mode {
	case importer.ModeCSV:
		parsed = importer.ParseCSV(text, source)
	case importer.ModeJSON:
		parsed, err = importer.ParseJSON(text, source)
		if err != nil {
			c.finishImport(mode, source, nil, err)
			return ImportResult{Mode: mode}, err
		}
	default:
		return ImportResult{Mode: mode}, fmt.Errorf("%w: %q", importer.ErrUnknownMode, mode)
	}

	return c.mergeBatch(mode, source, parsed.Holdings, parsed.Errors)
}

// ImportCSV parses delimited text and merges the valid rows
func (c *Controller) ImportCSV(text, source string) (ImportResult, error) {
	parsed := importer.ParseCSV(text, source)
	return c.mergeBatch(importer.ModeCSV, source, parsed.Holdings, parsed.Errors)
}

// ImportJSON parses a JSON holdings document and merges the valid items
func (c *Controller) ImportJSON(text, source string) (ImportResult, error) {
	parsed, err := importer.ParseJSON(text, source)
	if err != nil {
		c.finishImport(importer.ModeJSON, source, nil, err)
		return ImportResult{Mode: importer.ModeJSON}, err
	}
	return c.mergeBatch(importer.ModeJSON, source, parsed.Holdings, parsed.Errors)
}

// SmartImport extracts holdings from an arbitrary file with the extraction
// agent. Only one smart import runs at a time; a second one is rejected.
// The agent call is not tied to ctx cancellation, so a caller that goes
// away only stops waiting for the result.
func (c *Controller) SmartImport(ctx context.Context, fileName string, r io.Reader, source string) (ImportResult, error) {
	c.mu.Lock()
	if c.importPhase != PhaseIdle {
		c.mu.Unlock()
		return ImportResult{Mode: importer.ModeSmart}, ErrImportInProgress
	}
	c.importPhase = PhaseReading
	c.setStatus(AreaImport, StatusInfo, "Reading file...")
	c.mu.Unlock()

	defer c.withLock(func() { c.importPhase = PhaseIdle })

	text, err := c.readFile(r)
	if err != nil {
		c.finishImport(importer.ModeSmart, source, nil, err)
		return ImportResult{Mode: importer.ModeSmart}, err
	}

	c.withLock(func() {
		c.importPhase = PhaseAwaitingAgent
		c.setStatus(AreaImport, StatusInfo, "Extracting holdings with AI...")
	})

	prompt := importer.BuildExtractionPrompt(fileName, text, c.opts.MaxPromptChars)
	agentID := c.deps.Registry.ID(agent.RoleExtraction)
	resp, err := agent.Call(context.WithoutCancel(ctx), c.deps.Invoker, agentID, "extract holdings", prompt)
	if err != nil {
		c.finishImport(importer.ModeSmart, source, nil, err)
		return ImportResult{Mode: importer.ModeSmart}, err
	}

	items, ok := importer.ExtractJSONArray(agent.ResponseText(resp))
	if !ok {
		c.finishImport(importer.ModeSmart, source, nil, ErrNoJSONArray)
		return ImportResult{Mode: importer.ModeSmart}, ErrNoJSONArray
	}

	c.withLock(func() { c.importPhase = PhaseMerging })
	return c.mergeBatch(importer.ModeSmart, source, importer.NormalizeExtracted(items, source), nil)
}

// mergeBatch merges against the ledger as it is now, not as it was when
// the import started
func (c *Controller) mergeBatch(mode importer.Mode, source string, batch []models.Holding, rowErrors []string) (ImportResult, error) {
	source = models.NormalizeSource(source)
	result := ImportResult{Mode: mode, Source: source, Imported: batch, Errors: rowErrors}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	if len(batch) == 0 {
		err := ErrNoValidHoldings
		if len(rowErrors) > 0 {
			err = fmt.Errorf("%w: %s", ErrNoValidHoldings, strings.Join(rowErrors, "; "))
		}
		c.finishImport(mode, source, rowErrors, err)
		return result, err
	}

	c.mu.Lock()
	err := c.applyLedger(c.settings.Holdings.Merge(batch))
	result.Ledger = len(c.settings.Holdings)
	c.mu.Unlock()
	if err != nil {
		c.finishImport(mode, source, rowErrors, err)
		return result, err
	}

	c.log.Info().
		Str("operation", "import").
		Str("mode", string(mode)).
		Str("source", source).
		Int("count", len(batch)).
		Int("skipped", len(rowErrors)).
		Msg("holdings imported")

	msg := fmt.Sprintf("Imported %d holding(s) from %s", len(batch), source)
	if len(rowErrors) > 0 {
		msg += fmt.Sprintf(" (%d row(s) skipped)", len(rowErrors))
	}
	c.withLock(func() { c.setStatus(AreaImport, StatusSuccess, msg) })
	return result, nil
}

func (c *Controller) finishImport(mode importer.Mode, source string, rowErrors []string, err error) {
	c.log.Warn().
		Err(err).
		Str("operation", "import").
		Str("mode", string(mode)).
		Str("source", models.NormalizeSource(source)).
		Int("skipped", len(rowErrors)).
		Msg("import failed")
	c.withLock(func() { c.setStatus(AreaImport, StatusError, importMessage(err)) })
}

func importMessage(err error) string {
	var agentErr *agent.Error
	switch {
	case errors.Is(err, ErrFileUnreadable):
		return "Could not read the file. Make sure it is a text file (CSV, JSON, TXT)."
	case errors.As(err, &agentErr):
		return "The extraction agent failed: " + agentErr.Err.Error()
	case errors.Is(err, ErrNoJSONArray):
		return "Could not find holdings in the agent response. Please try again."
	case errors.Is(err, ErrNoValidHoldings):
		return "No valid holdings found in the file."
	}
	return err.Error()
}

// readFile reads upload content as text, bounded by MaxUploadBytes
func (c *Controller) readFile(r io.Reader) (string, error) {
	if r == nil {
		return "", ErrFileUnreadable
	}
	data, err := io.ReadAll(io.LimitReader(r, c.opts.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	if int64(len(data)) > c.opts.MaxUploadBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrFileUnreadable, c.opts.MaxUploadBytes)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, importer.ErrEmptyFile)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not a text file", ErrFileUnreadable)
	}
	return string(data), nil
}

func (c *Controller) withLock(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

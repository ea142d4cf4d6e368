package run

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"internwatch/internal/config"
	"internwatch/internal/diff"
	"internwatch/internal/digest"
	"internwatch/internal/domain"
	"internwatch/internal/extract"
	"internwatch/internal/filter"
	"internwatch/internal/notify"
	"internwatch/internal/revision"
	"internwatch/internal/state"
)

// Source is the document-hosting side of the pipeline: revision
// history plus raw content.
type Source interface {
	revision.Lister
	FetchDocument(ctx context.Context, rev string) (string, error)
}

// NewNotifier picks the transport the configuration selected.
func NewNotifier(cfg config.Config) notify.Notifier {
	if cfg.UseSMTP() {
		return &notify.SMTP{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			To:       cfg.Mail.To,
			From:     cfg.Mail.From,
			TLSMode:  cfg.Mail.SMTPTLS,
		}
	}
	return notify.NewSendGrid(cfg.Mail.SendGridKey, cfg.Mail.To, cfg.Mail.From)
}

// Once executes the whole pipeline exactly one time: select revisions,
// extract both snapshots, diff, filter, render, send, persist. Every
// stage runs sequentially; any failure before the send aborts with no
// mail, and a send failure aborts before the marker is advanced.
func Once(ctx context.Context, cfg config.Config, src Source, notifier notify.Notifier) error {
	store := state.Store{Path: cfg.Select.StateFile}

	var strat revision.Strategy
	switch cfg.Select.Mode {
	case config.SelectWindow:
		strat = revision.Window{Lookback: time.Duration(cfg.Select.LookbackHours) * time.Hour}
	default:
		marker, err := store.Load()
		if err != nil {
			return err
		}
		strat = revision.Marker{SHA: marker}
	}

	sel, err := strat.Select(ctx, src, cfg.Repo.Branch)
	if err != nil {
		return fmt.Errorf("select revisions: %w", err)
	}
	log.Printf("[select] current=%s previous=%s span=%d",
		short(sel.Current()), short(sel.Previous()), len(sel.Revisions))

	ex := extract.Extractor{BoardDomains: cfg.Heuristics.BoardDomains}

	curDoc, err := src.FetchDocument(ctx, sel.Current())
	if err != nil {
		return err
	}
	current, err := ex.Extract(curDoc)
	if err != nil {
		return fmt.Errorf("extract current snapshot: %w", err)
	}

	var previous []domain.Row
	switch prev := sel.Previous(); {
	case prev == "":
		// First run against a single-revision history; everything in
		// the current snapshot counts as new.
	case prev == sel.Current():
		previous = current
	default:
		prevDoc, err := src.FetchDocument(ctx, prev)
		if err != nil {
			return err
		}
		rows, err := ex.Extract(prevDoc)
		if errors.Is(err, extract.ErrNoTables) {
			log.Printf("[extract] previous snapshot %s has no tables; treating as empty", short(prev))
		} else if err != nil {
			return fmt.Errorf("extract previous snapshot: %w", err)
		} else {
			previous = rows
		}
	}

	newRows := diff.Rows(current, previous)

	region := filter.Region{
		Tokens: cfg.Heuristics.RegionTokens,
		Codes:  cfg.Heuristics.ProvinceCodes,
	}
	stats := digest.Compute(newRows, region)

	matched := filter.Keep(newRows, filter.Config{
		LocationEnabled: cfg.Filters.LocationEnabled,
		LocationsAllow:  cfg.Filters.LocationsAllow,
		Include:         cfg.Filters.IncludeKeywords,
		Exclude:         cfg.Filters.ExcludeKeywords,
		Region:          region,
	})
	log.Printf("[filter] rows=%d new=%d region=%d matched=%d",
		len(current), stats.Total, stats.RegionMatch, len(matched))

	subject := digest.Subject(len(matched))
	text := digest.PlainText(stats, matched)
	htmlBody := digest.HTML(stats, matched)

	if err := notifier.Send(ctx, subject, text, htmlBody); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("[notify] sent %q", subject)

	if cfg.Select.Mode == config.SelectMarker {
		if err := store.Save(sel.Current()); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
		log.Printf("[state] marker advanced to %s", short(sel.Current()))
	}
	return nil
}

func short(sha string) string {
	if sha == "" {
		return "(none)"
	}
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

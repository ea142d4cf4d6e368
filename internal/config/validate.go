package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list values and checks the
// required mail settings. It never touches the network.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.LocationsAllow = trimList(out.Filters.LocationsAllow)
	out.Filters.IncludeKeywords = trimList(out.Filters.IncludeKeywords)
	out.Filters.ExcludeKeywords = trimList(out.Filters.ExcludeKeywords)

	if out.Mail.To == "" {
		res.addErr("EMAIL_TO is required")
	}
	if out.Mail.From == "" {
		res.addErr("EMAIL_FROM is required")
	}

	if out.UseSMTP() {
		if out.Mail.SMTPUsername == "" {
			res.addErr("SMTP_USERNAME is required when SMTP_HOST is set")
		}
		if out.Mail.SMTPPassword == "" && out.Mail.SMTPTLS != "none" {
			res.addErr("SMTP_PASSWORD not set and not found in keyring")
		}
		switch out.Mail.SMTPTLS {
		case "starttls", "implicit", "none":
		default:
			res.addErr("SMTP_TLS must be starttls, implicit, or none (got %q)", out.Mail.SMTPTLS)
		}
	} else if out.Mail.SendGridKey == "" {
		res.addErr("SENDGRID_API_KEY not set and not found in keyring")
	}

	if out.Repo.Branch == "" {
		res.addErr("SOURCE_BRANCH is empty")
	}

	if !out.Filters.LocationEnabled && len(out.Filters.LocationsAllow) > 0 {
		res.addWarn("LOCATION_ALLOWLIST is ignored while LOCATION_FILTER is off")
	}

	return out, res
}

package report

import (
	"time"

	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
)

// requiredHeaders are the response headers every audited site is
// checked for. Absent vendor data reads as not present.
var requiredHeaders = []string{
	"strict-transport-security",
	"content-security-policy",
	"x-content-type-options",
	"x-frame-options",
	"referrer-policy",
}

// buildSecurity normalizes the vendor security assessment: certificate
// state, header compliance over a fixed required set, and findings.
func buildSecurity(sec *dataforseo.SecurityResult) models.SecurityReport {
	out := models.SecurityReport{
		Headers:         make(map[string]bool, len(requiredHeaders)),
		Vulnerabilities: []string{},
	}
	for _, header := range requiredHeaders {
		out.Headers[header] = false
	}
	if sec == nil {
		return out
	}

	out.SSL = models.SSLInfo{
		Valid:    sec.SSL.Valid,
		Issuer:   sec.SSL.Issuer,
		Protocol: sec.SSL.Protocol,
	}
	if sec.SSL.Expiration != "" {
		if expiry, err := time.Parse(time.RFC3339, sec.SSL.Expiration); err == nil {
			out.SSL.Expiry = expiry
		}
	}

	for header, present := range sec.SecurityHeaders {
		out.Headers[header] = present
	}
	if len(sec.Vulnerabilities) > 0 {
		out.Vulnerabilities = append(out.Vulnerabilities, sec.Vulnerabilities...)
	}
	return out
}

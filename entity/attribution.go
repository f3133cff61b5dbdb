package entity

import (
	"net/url"
	"strings"
)

// Attribution is the campaign metadata sent next to every lead.
type Attribution struct {
	UtmSource         string `json:"utm_source,omitempty" bson:"utm_source,omitempty"`
	UtmMedium         string `json:"utm_medium,omitempty" bson:"utm_medium,omitempty"`
	UtmCampaign       string `json:"utm_campaign,omitempty" bson:"utm_campaign,omitempty"`
	UtmTerm           string `json:"utm_term,omitempty" bson:"utm_term,omitempty"`
	UtmContent        string `json:"utm_content,omitempty" bson:"utm_content,omitempty"`
	UtmPlacement      string `json:"utm_placement,omitempty" bson:"utm_placement,omitempty"`
	UtmSiteSourceName string `json:"utm_site_source_name,omitempty" bson:"utm_site_source_name,omitempty"`
	PageURL           string `json:"page_url,omitempty" bson:"page_url,omitempty"`
	Referrer          string `json:"referrer,omitempty" bson:"referrer,omitempty"`
	Fbp               string `json:"fbp,omitempty" bson:"fbp,omitempty"`
	Fbc               string `json:"fbc,omitempty" bson:"fbc,omitempty"`
}

// NewAttribution reads the utm_* parameters from the landing page URL.
// Cookie values arrive URL-encoded and are decoded here.
func NewAttribution(pageURL, referrer, fbp, fbc string) Attribution {
	a := Attribution{
		PageURL:  strings.TrimSpace(pageURL),
		Referrer: strings.TrimSpace(referrer),
		Fbp:      unescape(fbp),
		Fbc:      unescape(fbc),
	}
	u, err := url.Parse(a.PageURL)
	if err != nil {
		return a
	}
	q := u.Query()
	a.UtmSource = q.Get("utm_source")
	a.UtmMedium = q.Get("utm_medium")
	a.UtmCampaign = q.Get("utm_campaign")
	a.UtmTerm = q.Get("utm_term")
	a.UtmContent = q.Get("utm_content")
	a.UtmPlacement = q.Get("utm_placement")
	a.UtmSiteSourceName = q.Get("utm_site_source_name")
	return a
}

// Slug is host plus path of the landing page.
func (a Attribution) Slug() string {
	host, path := "localhost", "/"
	if u, err := url.Parse(a.PageURL); err == nil {
		if u.Hostname() != "" {
			host = u.Hostname()
		}
		if u.Path != "" {
			path = u.Path
		}
	}
	return host + path
}

func unescape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if d, err := url.QueryUnescape(v); err == nil {
		return d
	}
	return v
}

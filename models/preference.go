package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Theme represents the UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Themes lists every accepted theme in display order
var Themes = []Theme{ThemeLight, ThemeDark, ThemeAuto}

// Valid reports whether t is one of the enumerated themes
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

const (
	DefaultTheme    = ThemeLight
	DefaultLanguage = "en"
)

// NotificationSettings represents the notification channel flags
type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// Value implements driver.Valuer for JSONB
func (n NotificationSettings) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements sql.Scanner for JSONB
func (n *NotificationSettings) Scan(value interface{}) error {
	return scanJSON(value, n)
}

// PrivacySettings represents the profile visibility flags
type PrivacySettings struct {
	ProfileVisible bool `json:"profileVisible"`
	ShowEmail      bool `json:"showEmail"`
}

// Value implements driver.Valuer for JSONB
func (p PrivacySettings) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *PrivacySettings) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// PreferenceRecord represents the stored per-user settings document
type PreferenceRecord struct {
	UserID        string               `json:"userId"`
	Theme         Theme                `json:"theme"`
	Language      string               `json:"language"`
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	CreatedAt     time.Time            `json:"createdAt,omitzero"`
	UpdatedAt     time.Time            `json:"updatedAt,omitzero"`
}

// DefaultPreferences returns an unpersisted record with every default populated
func DefaultPreferences(userID string) *PreferenceRecord {
	return &PreferenceRecord{
		UserID:   userID,
		Theme:    DefaultTheme,
		Language: DefaultLanguage,
		Notifications: NotificationSettings{
			Email: true,
			Push:  false,
			SMS:   false,
		},
		Privacy: PrivacySettings{
			ProfileVisible: true,
			ShowEmail:      false,
		},
	}
}

// Clone returns an independent copy of the record
func (r *PreferenceRecord) Clone() *PreferenceRecord {
	c := *r
	return &c
}

// SameContent reports whether two records hold the same content fields,
// ignoring the key and timestamps
func (r *PreferenceRecord) SameContent(other *PreferenceRecord) bool {
	return r.Theme == other.Theme &&
		r.Language == other.Language &&
		r.Notifications == other.Notifications &&
		r.Privacy == other.Privacy
}

// NotificationPatch holds the notification flags present in an update
type NotificationPatch struct {
	Email *bool `json:"email,omitempty"`
	Push  *bool `json:"push,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

// PrivacyPatch holds the privacy flags present in an update
type PrivacyPatch struct {
	ProfileVisible *bool `json:"profileVisible,omitempty"`
	ShowEmail      *bool `json:"showEmail,omitempty"`
}

// PreferencePatch represents a partial update. Nil fields are left untouched.
type PreferencePatch struct {
	Theme         *Theme             `json:"theme,omitempty"`
	Language      *string            `json:"language,omitempty"`
	Notifications *NotificationPatch `json:"notifications,omitempty"`
	Privacy       *PrivacyPatch      `json:"privacy,omitempty"`
}

// ApplyTo merges the patch into r. Nested settings are merged key by key,
// so flags absent from the patch keep their current value.
func (p *PreferencePatch) ApplyTo(r *PreferenceRecord) {
	if p == nil {
		return
	}
	if p.Theme != nil {
		r.Theme = *p.Theme
	}
	if p.Language != nil {
		r.Language = *p.Language
	}
	if n := p.Notifications; n != nil {
		setBool(&r.Notifications.Email, n.Email)
		setBool(&r.Notifications.Push, n.Push)
		setBool(&r.Notifications.SMS, n.SMS)
	}
	if pr := p.Privacy; pr != nil {
		setBool(&r.Privacy.ProfileVisible, pr.ProfileVisible)
		setBool(&r.Privacy.ShowEmail, pr.ShowEmail)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// scanJSON decodes a JSON column into dst. pgx hands JSONB over as []byte or
// string depending on the protocol format; sqlite3 returns []byte.
func scanJSON(value interface{}, dst interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.Errorf("unsupported JSON column type %T", value)
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, dst)
}

package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"schematics-backend/apperrors"
	"schematics-backend/models"
)

// MaxLanguageLength bounds the free-form language tag.
const MaxLanguageLength = 64

// readOnlyFields are store-managed keys a client may echo back from a GET.
// They are ignored rather than rejected.
var readOnlyFields = map[string]bool{
	"userId":    true,
	"createdAt": true,
	"updatedAt": true,
}

var (
	notificationFields = []string{"email", "push", "sms"}
	privacyFields      = []string{"profileVisible", "showEmail"}
)

// DecodePreferencePatch parses a JSON request body into a validated patch.
// Only the fields present in the body are validated. Unknown fields are
// rejected; every problem is reported in the error details.
func DecodePreferencePatch(body []byte) (*models.PreferencePatch, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apperrors.Validation("request body must be a JSON object", nil)
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, apperrors.Validation("request body must be a JSON object", nil)
	}
	if dec.More() {
		return nil, apperrors.Validation("request body must contain a single JSON object", nil)
	}

	return PreferencePatchFromMap(raw)
}

// PreferencePatchFromMap validates a decoded JSON object field by field.
func PreferencePatchFromMap(raw map[string]any) (*models.PreferencePatch, error) {
	errs := fieldErrors{}
	patch := &models.PreferencePatch{}

	for _, key := range sortedKeys(raw) {
		value := raw[key]
		switch key {
		case "theme":
			s, ok := value.(string)
			if !ok {
				errs.add("theme", "must be a string")
				continue
			}
			theme := models.Theme(s)
			if msg := themeError(theme); msg != "" {
				errs.add("theme", msg)
				continue
			}
			patch.Theme = &theme
		case "language":
			s, ok := value.(string)
			if !ok {
				errs.add("language", "must be a string")
				continue
			}
			if msg := languageError(s); msg != "" {
				errs.add("language", msg)
				continue
			}
			patch.Language = &s
		case "notifications":
			flags, ok := decodeFlags("notifications", value, notificationFields, errs)
			if !ok {
				continue
			}
			patch.Notifications = &models.NotificationPatch{
				Email: flags["email"],
				Push:  flags["push"],
				SMS:   flags["sms"],
			}
		case "privacy":
			flags, ok := decodeFlags("privacy", value, privacyFields, errs)
			if !ok {
				continue
			}
			patch.Privacy = &models.PrivacyPatch{
				ProfileVisible: flags["profileVisible"],
				ShowEmail:      flags["showEmail"],
			}
		default:
			if readOnlyFields[key] {
				continue
			}
			errs.add(key, "unknown field")
		}
	}

	if err := errs.err("invalid preferences"); err != nil {
		return nil, err
	}
	return patch, nil
}

// ValidatePatch checks a typed patch built without going through JSON.
func ValidatePatch(patch *models.PreferencePatch) error {
	if patch == nil {
		return nil
	}
	errs := fieldErrors{}
	if patch.Theme != nil {
		if msg := themeError(*patch.Theme); msg != "" {
			errs.add("theme", msg)
		}
	}
	if patch.Language != nil {
		if msg := languageError(*patch.Language); msg != "" {
			errs.add("language", msg)
		}
	}
	return errs.err("invalid preferences")
}

func themeError(theme models.Theme) string {
	if theme.Valid() {
		return ""
	}
	names := make([]string, len(models.Themes))
	for i, t := range models.Themes {
		names[i] = string(t)
	}
	return fmt.Sprintf("must be one of %s", strings.Join(names, ", "))
}

func languageError(language string) string {
	if utf8.RuneCountInString(language) > MaxLanguageLength {
		return fmt.Sprintf("must be at most %d characters", MaxLanguageLength)
	}
	return ""
}

// decodeFlags validates a nested object of boolean leaves. The returned map
// only holds the keys present in the input.
func decodeFlags(field string, value any, allowed []string, errs fieldErrors) (map[string]*bool, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		errs.add(field, "must be an object")
		return nil, false
	}

	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}

	valid := true
	flags := make(map[string]*bool, len(obj))
	for _, key := range sortedKeys(obj) {
		path := field + "." + key
		if !known[key] {
			errs.add(path, "unknown field")
			valid = false
			continue
		}
		b, ok := obj[key].(bool)
		if !ok {
			errs.add(path, "must be a boolean")
			valid = false
			continue
		}
		flags[key] = &b
	}
	return flags, valid
}

// fieldErrors keeps the first message reported for each field path.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err(prefix string) error {
	if len(f) == 0 {
		return nil
	}
	parts := make([]string, 0, len(f))
	for _, field := range sortedKeys(f) {
		parts = append(parts, field+": "+f[field])
	}
	details := make(map[string]string, len(f))
	for k, v := range f {
		details[k] = v
	}
	return apperrors.Validation(prefix+": "+strings.Join(parts, "; "), details)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOptions is returned when newsletter options fail validation.
var ErrInvalidOptions = errors.New("invalid newsletter options")

// UnsubscribeMode selects how an unsubscribe request is authorized.
type UnsubscribeMode string

// Supported unsubscribe authorization modes.
const (
	// UnsubscribeModeToken requires the per-user token from the mail link.
	UnsubscribeModeToken UnsubscribeMode = "token"
	// UnsubscribeModeSession requires the requester to be logged in as the user.
	UnsubscribeModeSession UnsubscribeMode = "session"
)

// Options enumerates every newsletter option together with its default.
// Field names follow the host's option keys, including their historical spelling.
type Options struct {
	// UserGroup is the notification group id. Zero means no group configured.
	UserGroup int64 `yaml:"usergroup"`

	MailUnsubscribe   bool   `yaml:"mail_unsubscribe"`
	UnsubscribeEmails string `yaml:"unsubscribe_emails"`

	MailtoAdmins    bool   `yaml:"mailto_admins"`
	MailtoCustom    bool   `yaml:"mailto_custom"`
	CustomEmails    string `yaml:"custom_emails"`
	MailtoUsergroup bool   `yaml:"mailto_usergroup"`

	ArticleBackend  bool `yaml:"article_backend"`
	ArticleFrontend bool `yaml:"article_frontend"`

	NewsletterSubject        string `yaml:"newslettersubject"`
	NewsletterBody           string `yaml:"newsletterbody"`
	UnsubscribedSubject      string `yaml:"unsubsribedsubject"`
	UnsubscribedBody         string `yaml:"unsubsribedbody"`
	UnsubscribedAdminSubject string `yaml:"unsubsribedadminsubject"`
	UnsubscribedAdminBody    string `yaml:"unsubsribedadminbody"`
	UnableToUnsubscribeBody  string `yaml:"unabletounsubsribebody"`

	UnsubscribeMode UnsubscribeMode `yaml:"unsubscribe_mode"`
}

// default message texts
const (
	DefaultNewsletterSubject        = "[URL]: New article \"[TITLE]\""
	DefaultNewsletterBody           = "Hello [RECEIVER-NAME],\\n\\n[NAME] published a new article in [CATEGORY]: [TITLE]\\n\\n[INTROTEXT]\\n\\nRead more: [LINK]\\n\\nTo stop receiving these mails open: [UNSUBSCRIBE-URL]"
	DefaultUnsubscribedSubject      = "[URL]: You have been unsubscribed"
	DefaultUnsubscribedBody         = "Hello [NAME],\\n\\nyou will no longer receive new article notifications from [URL]."
	DefaultUnsubscribedAdminSubject = "[URL]: [USERNAME] unsubscribed"
	DefaultUnsubscribedAdminBody    = "The user [NAME] ([USERNAME]) unsubscribed from the newsletter on [URL]."
	DefaultUnableToUnsubscribeBody  = "[NAME] published a new article in [CATEGORY]: [TITLE]\\n\\n[INTROTEXT]\\n\\nRead more: [LINK]"
)

// DefaultOptions returns the option set used when no file overrides a value.
func DefaultOptions() Options {
	return Options{
		NewsletterSubject:        DefaultNewsletterSubject,
		NewsletterBody:           DefaultNewsletterBody,
		UnsubscribedSubject:      DefaultUnsubscribedSubject,
		UnsubscribedBody:         DefaultUnsubscribedBody,
		UnsubscribedAdminSubject: DefaultUnsubscribedAdminSubject,
		UnsubscribedAdminBody:    DefaultUnsubscribedAdminBody,
		UnableToUnsubscribeBody:  DefaultUnableToUnsubscribeBody,
		UnsubscribeMode:          UnsubscribeModeToken,
	}
}

// LoadOptions reads options from a yaml file on top of the defaults.
// A missing file yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, opts.Validate()
		}
		return opts, fmt.Errorf("read options file: %w", err)
	}

	return ParseOptions(data)
}

// OptionsFileExists reports whether path names an existing regular file.
func OptionsFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ParseOptions decodes yaml option data on top of the defaults and validates the result.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("decode options: %w", err)
	}

	// empty strings in yaml fall back to the defaults, like the host's params->get
	def := DefaultOptions()
	fallback(&opts.NewsletterSubject, def.NewsletterSubject)
	fallback(&opts.NewsletterBody, def.NewsletterBody)
	fallback(&opts.UnsubscribedSubject, def.UnsubscribedSubject)
	fallback(&opts.UnsubscribedBody, def.UnsubscribedBody)
	fallback(&opts.UnsubscribedAdminSubject, def.UnsubscribedAdminSubject)
	fallback(&opts.UnsubscribedAdminBody, def.UnsubscribedAdminBody)
	fallback(&opts.UnableToUnsubscribeBody, def.UnableToUnsubscribeBody)
	if opts.UnsubscribeMode == "" {
		opts.UnsubscribeMode = def.UnsubscribeMode
	}

	return opts, opts.Validate()
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.UserGroup < 0 {
		return fmt.Errorf("%w: usergroup must not be negative", ErrInvalidOptions)
	}

	switch o.UnsubscribeMode {
	case UnsubscribeModeToken, UnsubscribeModeSession:
	default:
		return fmt.Errorf("%w: unknown unsubscribe_mode %q", ErrInvalidOptions, o.UnsubscribeMode)
	}

	if o.MailUnsubscribe && len(SplitAddresses(o.UnsubscribeEmails)) == 0 {
		return fmt.Errorf("%w: mail_unsubscribe enabled without unsubscribe_emails", ErrInvalidOptions)
	}

	return nil
}

// HasGroup reports whether a notification group is configured.
func (o Options) HasGroup() bool {
	return o.UserGroup > 0
}

// SplitAddresses splits a semicolon-delimited address list, dropping empty entries.
func SplitAddresses(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ";") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func fallback(field *string, def string) {
	if strings.TrimSpace(*field) == "" {
		*field = def
	}
}

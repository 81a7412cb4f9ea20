// Package identity handles the startup prompts for nickname and display
// color. The session does not exist until both pass validation.
package identity

import (
	"errors"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// Identity is the local user as presented to the chat service.
type Identity struct {
	Nickname string `json:"nickname"`
	Color    string `json:"color"`
}

var colorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// ValidColor reports whether s is exactly six hex digits.
func ValidColor(s string) bool { return colorRe.MatchString(s) }

// ValidateNickname rejects empty or all-whitespace nicknames.
func ValidateNickname(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("nickname must not be empty")
	}
	return nil
}

// ValidateColor rejects anything that is not a 6-hex-digit color.
func ValidateColor(s string) error {
	if !ValidColor(s) {
		return errors.New("color must be 6 hex digits, e.g. 00FF00")
	}
	return nil
}

// ErrAborted is returned when the user cancels the setup form.
var ErrAborted = errors.New("identity setup aborted")

// Prompt runs the interactive setup form. Defaults prefill the fields; the
// form loops on each field until its validator passes.
func Prompt(defaults Identity) (Identity, error) {
	id := defaults
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("partyline").
				Description("Set up your identity before connecting."),
			huh.NewInput().
				Title("Nickname").
				Validate(ValidateNickname).
				Value(&id.Nickname),
			huh.NewInput().
				Title("Color").
				Description("6 hex digits, used to tint your messages").
				Placeholder("00FF00").
				Validate(ValidateColor).
				Value(&id.Color),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Identity{}, ErrAborted
		}
		return Identity{}, err
	}
	id.Nickname = strings.TrimSpace(id.Nickname)
	return id, nil
}

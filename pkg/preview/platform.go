package preview

import (
	"fmt"
	"strings"

	"github.com/user/avatarcrop/pkg/ports"
)

// Slot is a place an avatar is drawn.
type Slot struct {
	Size   int
	Shape  ports.AvatarShape
	Ring   bool // accent ring around the avatar
	Status bool // online dot at the bottom right
}

// Copy is the placeholder text shown around the avatar.
type Copy struct {
	Name     string
	Handle   string
	Message  string
	Headline string
	Details  []string
}

// Platform describes one preview card.
type Platform struct {
	Name    string
	Slug    string
	Post    Slot // small avatar next to a post or message
	Profile Slot // large avatar on the profile panel
	Copy    Copy
	Light   Palette
	Dark    Palette
}

// Palette returns the palette for theme.
func (p Platform) Palette(theme Theme) Palette {
	if theme == ThemeDark {
		return p.Dark
	}
	return p.Light
}

// FileName is the name the avatar is downloaded under from this card.
func (p Platform) FileName() string {
	return p.Slug + "-profile-picture.jpg"
}

var platforms = []Platform{
	{
		Name:    "Facebook",
		Slug:    "facebook",
		Post:    Slot{Size: 40, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 160, Shape: ports.ShapeCircle, Ring: true},
		Copy: Copy{
			Name:     "Your Name",
			Handle:   "Just now · Public",
			Message:  "Check out my new profile picture!",
			Headline: "Your Name",
			Details:  []string{"Profile picture", "Public"},
		},
		Light: Palette{Page: white, Surface: gray100, Text: gray900, Muted: gray500, Accent: blue500},
		Dark:  neutral(ThemeDark, blue500),
	},
	{
		Name:    "Instagram",
		Slug:    "instagram",
		Post:    Slot{Size: 32, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 80, Shape: ports.ShapeCircle, Ring: true},
		Copy: Copy{
			Name:     "your_username",
			Handle:   "1,234 likes",
			Message:  "New profile pic!",
			Headline: "your_username",
		},
		Light: neutral(ThemeLight, pink500),
		Dark:  neutral(ThemeDark, pink500),
	},
	{
		Name:    "X (Twitter)",
		Slug:    "twitter",
		Post:    Slot{Size: 48, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 96, Shape: ports.ShapeCircle},
		Copy: Copy{
			Name:     "Your Name",
			Handle:   "@username · 1m",
			Message:  "Your bio goes here",
			Headline: "Your Name",
			Details:  []string{"123 Following", "456 Followers"},
		},
		Light: Palette{Page: hex("#FFFFFF"), Surface: hex("#F7F9F9"), Band: hex("#EFF3F4"), Text: hex("#0F1419"), Muted: hex("#536471"), Accent: hex("#1D9BF0")},
		Dark:  Palette{Page: hex("#000000"), Surface: hex("#16181C"), Band: hex("#2F3336"), Text: hex("#F7F9F9"), Muted: hex("#71767B"), Accent: hex("#1D9BF0")},
	},
	{
		Name:    "GitHub",
		Slug:    "github",
		Post:    Slot{Size: 40, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 80, Shape: ports.ShapeCircle},
		Copy: Copy{
			Name:     "Your Name",
			Handle:   "username",
			Message:  "Your bio goes here",
			Headline: "Your Name",
			Details:  []string{"123 followers · 45 following", "Contributions 1,234", "Repositories 42"},
		},
		Light: neutral(ThemeLight, gray900),
		Dark:  neutral(ThemeDark, gray100),
	},
	{
		Name:    "LinkedIn",
		Slug:    "linkedin",
		Post:    Slot{Size: 48, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 96, Shape: ports.ShapeCircle, Ring: true},
		Copy: Copy{
			Name:     "Your Name",
			Handle:   "2 hours ago",
			Message:  "Recent Activity",
			Headline: "Your Name",
			Details:  []string{"Professional Title", "500+ connections"},
		},
		Light: Palette{Page: white, Surface: gray100, Band: blue600, Text: gray900, Muted: gray500, Accent: white},
		Dark:  Palette{Page: gray950, Surface: gray900, Band: blue600, Text: gray100, Muted: gray400, Accent: gray900},
	},
	{
		Name:    "Discord",
		Slug:    "discord",
		Post:    Slot{Size: 40, Shape: ports.ShapeCircle, Status: true},
		Profile: Slot{Size: 80, Shape: ports.ShapeCircle, Status: true},
		Copy: Copy{
			Name:     "Username",
			Handle:   "Today at 12:34 PM",
			Message:  "Just updated my profile picture!",
			Headline: "Username#1234",
			Details:  []string{"Playing a game", "Online"},
		},
		Light: Palette{Page: white, Surface: hex("#F2F3F5"), Band: hex("#5865F2"), Text: hex("#060607"), Muted: hex("#5C5E66"), Accent: hex("#3BA55D")},
		Dark:  Palette{Page: hex("#36393F"), Surface: hex("#2F3136"), Band: hex("#5865F2"), Text: white, Muted: hex("#B5BAC1"), Accent: hex("#3BA55D")},
	},
	{
		Name:    "Slack",
		Slug:    "slack",
		Post:    Slot{Size: 36, Shape: ports.ShapeRounded},
		Profile: Slot{Size: 64, Shape: ports.ShapeRounded, Status: true},
		Copy: Copy{
			Name:     "Your Name",
			Handle:   "12:34 PM",
			Message:  "Looking good!",
			Headline: "Your Name",
			Details:  []string{"Title: Software Developer", "Local time: 12:34 PM", "Email: you@example.com"},
		},
		Light: Palette{Page: white, Surface: gray100, Band: slack, Text: gray900, Muted: gray500, Accent: hex("#2BAC76")},
		Dark:  Palette{Page: hex("#1A1D21"), Surface: hex("#222529"), Band: slack, Text: hex("#D1D2D3"), Muted: hex("#ABABAD"), Accent: hex("#2BAC76")},
	},
	{
		Name:    "WhatsApp",
		Slug:    "whatsapp",
		Post:    Slot{Size: 40, Shape: ports.ShapeCircle},
		Profile: Slot{Size: 80, Shape: ports.ShapeCircle},
		Copy: Copy{
			Name:     "Contact Name",
			Handle:   "Online",
			Message:  "Check out my new profile picture!",
			Headline: "Contact Name",
			Details:  []string{"Contact Info", "+1 234 567 8900"},
		},
		Light: Palette{Page: hex("#F0F2F5"), Surface: hex("#D9FDD3"), Band: hex("#008069"), Text: hex("#111B21"), Muted: hex("#667781"), Accent: green},
		Dark:  Palette{Page: hex("#0B141A"), Surface: hex("#005C4B"), Band: hex("#202C33"), Text: hex("#E9EDEF"), Muted: hex("#8696A0"), Accent: green},
	},
}

// Platforms returns all platforms in display order.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// Lookup finds a platform by slug or display name, case-insensitively.
func Lookup(name string) (Platform, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range platforms {
		if p.Slug == key || strings.ToLower(p.Name) == key {
			return p, true
		}
	}
	if key == "x" {
		return Lookup("twitter")
	}
	return Platform{}, false
}

// Select returns the named platforms in display order. No names selects all.
func Select(names []string) ([]Platform, error) {
	if len(names) == 0 {
		return Platforms(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		p, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown platform: %q", n)
		}
		want[p.Slug] = true
	}
	var out []Platform
	for _, p := range platforms {
		if want[p.Slug] {
			out = append(out, p)
		}
	}
	return out, nil
}

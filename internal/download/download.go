package download

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

const (
	ModeDirect = "direct"
	ModeSigned = "signed"
)

var (
	unsafeCharsRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Strategy turns a module name into the URL the customer downloads it from.
// Link is deterministic for Direct; SignedExpiring embeds the current expiry.
type Strategy interface {
	Link(name string) string
}

func New(cfg config.Download) (Strategy, error) {
	const op = "download.New"

	direct := NewDirect(cfg.BaseURL, cfg.Extension)
	switch cfg.Mode {
	case "", ModeDirect:
		return direct, nil
	case ModeSigned:
		s, err := NewSignedExpiring(direct, cfg.Secret, cfg.TTL, WithVerifierURL(cfg.VerifierURL))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unknown mode %q", op, cfg.Mode)
	}
}

// Sanitize removes filesystem-unsafe characters and replaces whitespace runs
// with a single dash.
func Sanitize(name string) string {
	name = unsafeCharsRe.ReplaceAllString(name, "-")
	name = strings.TrimSpace(name)
	return whitespaceRe.ReplaceAllString(name, "-")
}

// BuildLinks attaches a link to every item, so the result always has one
// link per module.
func BuildLinks(s Strategy, items []entity.ModuleItem) []entity.ModuleItem {
	out := make([]entity.ModuleItem, len(items))
	for i, it := range items {
		out[i] = entity.ModuleItem{Name: it.Name, DownloadURL: s.Link(it.Name)}
	}
	return out
}

type Direct struct {
	baseURL   string
	extension string
}

func NewDirect(baseURL, extension string) *Direct {
	return &Direct{
		baseURL:   strings.TrimRight(baseURL, "/"),
		extension: extension,
	}
}

// FileName is the sanitized name with the extension appended.
func (d *Direct) FileName(name string) string {
	return Sanitize(name) + d.extension
}

func (d *Direct) Link(name string) string {
	return d.fileURL(d.FileName(name))
}

func (d *Direct) fileURL(file string) string {
	return d.baseURL + "/" + url.PathEscape(file)
}

package ffmpeg

import (
	"errors"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinVersion is the oldest ffmpeg release the fixed arguments are known to
// work with.
var MinVersion = semver.MustParse("4.0.0")

// ErrUnknownVersion is returned when the -version banner carries no
// parseable release number, as with git snapshot builds.
var ErrUnknownVersion = errors.New("unrecognized ffmpeg version")

// Release builds print "ffmpeg version 6.1.1-3ubuntu5", some distributions
// prefix the number with "n".
var reVersion = regexp.MustCompile(`^ffmpeg version n?(\d+(?:\.\d+){0,2})`)

// VersionInfo is what ffmpeg reports about itself.
type VersionInfo struct {
	Banner  string // first line of "ffmpeg -version"
	Version *semver.Version
}

// Version runs "ffmpeg -version". A missing binary yields an error wrapping
// ErrToolMissing; an unparseable banner is returned with a nil Version.
func (f *FFmpeg) Version() (VersionInfo, error) {
	stderr := newTailBuffer(stderrTailSize)

	cmd := exec.Command(f.Command(), "-version")
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		return VersionInfo{}, classify(err, stderr)
	}

	banner := strings.TrimSpace(string(out))
	if i := strings.IndexByte(banner, '\n'); i >= 0 {
		banner = strings.TrimSpace(banner[:i])
	}

	info := VersionInfo{Banner: banner}
	if v, err := ParseVersion(banner); err == nil {
		info.Version = v
	}
	return info, nil
}

// ParseVersion extracts the release number from an ffmpeg -version banner.
func ParseVersion(banner string) (*semver.Version, error) {
	m := reVersion.FindStringSubmatch(strings.TrimSpace(banner))
	if m == nil {
		return nil, ErrUnknownVersion
	}
	return semver.NewVersion(m[1])
}

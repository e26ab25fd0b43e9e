package actions

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
)

// RepoFromGit returns "owner/name" of the origin remote of the git checkout
// containing dir.
func RepoFromGit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrapf(err, "open git repository at %s", dir)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", errors.Wrap(err, "read origin remote")
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.New("origin remote has no URL")
	}
	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts "owner/name" from an HTTPS, SSH or scp-style
// remote URL.
func ParseRemoteURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)

	var path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return "", errors.Wrapf(err, "parse remote URL %q", remote)
		}
		path = u.Path
	} else if _, after, ok := strings.Cut(remote, ":"); ok {
		path = after
	} else {
		return "", errors.Newf("unrecognized remote URL %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" || segments[len(segments)-1] == "" {
		return "", errors.Newf("remote URL %q does not name owner/repository", remote)
	}
	return segments[len(segments)-2] + "/" + segments[len(segments)-1], nil
}

// Package settings defines the closed set of repository configuration keys,
// their defaults and the shape each value must have.
package settings

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/core/id"
)

// Configuration keys.
const (
	BranchesMain          = "branches.main"
	BranchesDevelop       = "branches.develop"
	BranchesFeaturePrefix = "branches.feature_prefix"
	BranchesReleasePrefix = "branches.release_prefix"
	BranchesRemote        = "branches.remote"
	BranchesPullOnStart   = "branches.pull_on_start"
	GoalsDefaultStatus    = "goals.default_status"
	GoalsIDPattern        = "goals.id_pattern"
	GoalsInProgressLimit  = "goals.in_progress_limit"
	GitHubOwner           = "github.owner"
	GitHubRepo            = "github.repo"
	GitHubAutoSync        = "github.auto_sync"
)

// ErrUnknownKey is returned for keys outside the schema.
var ErrUnknownKey = errors.New("unknown configuration key")

// ErrInvalidValue is returned when a value does not have the key's shape.
var ErrInvalidValue = errors.New("invalid configuration value")

// Kind describes the expected value shape of a key.
type Kind string

const (
	KindBranch Kind = "branch"
	KindRemote Kind = "remote"
	KindBool   Kind = "bool"
	KindStatus Kind = "status"
	KindRegexp Kind = "regexp"
	KindInt    Kind = "positive-int"
	KindSlug   Kind = "slug"
)

// Key is one entry of the schema.
type Key struct {
	Name        string
	Kind        Kind
	Default     string // Empty means unset
	Description string
}

var schema = map[string]Key{
	BranchesMain:          {BranchesMain, KindBranch, "main", "Production branch"},
	BranchesDevelop:       {BranchesDevelop, KindBranch, "develop", "Base branch for new goal branches"},
	BranchesFeaturePrefix: {BranchesFeaturePrefix, KindBranch, "feature", "Prefix for goal branches"},
	BranchesReleasePrefix: {BranchesReleasePrefix, KindBranch, "release", "Prefix for release branches"},
	BranchesRemote:        {BranchesRemote, KindRemote, "origin", "Remote used for pull and push"},
	BranchesPullOnStart:   {BranchesPullOnStart, KindBool, "true", "Pull the base branch before creating a goal branch"},
	GoalsDefaultStatus:    {GoalsDefaultStatus, KindStatus, string(goal.StatusTodo), "Status for new goals"},
	GoalsIDPattern:        {GoalsIDPattern, KindRegexp, id.Pattern.String(), "Pattern goal ids must match"},
	GoalsInProgressLimit:  {GoalsInProgressLimit, KindInt, "3", "In-progress goals before a warning"},
	GitHubOwner:           {GitHubOwner, KindSlug, "", "GitHub repository owner"},
	GitHubRepo:            {GitHubRepo, KindSlug, "", "GitHub repository name"},
	GitHubAutoSync:        {GitHubAutoSync, KindBool, "false", "Push goal state to GitHub after lifecycle changes"},
}

var (
	branchPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)
	remotePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	slugPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Lookup returns the schema entry for a key.
func Lookup(name string) (Key, error) {
	k, ok := schema[name]
	if !ok {
		return Key{}, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return k, nil
}

// Keys returns every schema entry sorted by name.
func Keys() []Key {
	out := make([]Key, 0, len(schema))
	for _, k := range schema {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks that value has the shape the key expects and returns the
// normalised value to store.
func Validate(name, value string) (string, error) {
	k, err := Lookup(name)
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(value)

	invalid := func(format string, args ...any) (string, error) {
		return "", fmt.Errorf("%w for %s: %s", ErrInvalidValue, name, fmt.Sprintf(format, args...))
	}

	switch k.Kind {
	case KindBranch:
		if !branchPattern.MatchString(v) || strings.Contains(v, "..") || strings.HasSuffix(v, "/") {
			return invalid("%q is not a valid branch name", v)
		}
	case KindRemote:
		if !remotePattern.MatchString(v) {
			return invalid("%q is not a valid remote name", v)
		}
	case KindSlug:
		if !slugPattern.MatchString(v) {
			return invalid("%q is not a valid name", v)
		}
	case KindBool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalid("%q is not a boolean", v)
		}
		v = strconv.FormatBool(b)
	case KindInt:
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return invalid("%q is not a positive integer", v)
		}
		v = strconv.Itoa(n)
	case KindRegexp:
		if _, err := regexp.Compile(v); err != nil {
			return invalid("%v", err)
		}
	case KindStatus:
		s, err := goal.ParseStatus(v)
		if err != nil {
			return invalid("%v", err)
		}
		if s != goal.InitialStatus() {
			return invalid("new goals must start as %s", goal.InitialStatus())
		}
	default:
		return invalid("unsupported kind %s", k.Kind)
	}
	return v, nil
}

// Values resolves stored entries against the schema defaults.
type Values map[string]string

// Resolve overlays stored values on the defaults. Stored keys outside the
// schema are ignored; a stored value the schema rejects is an ErrInvalidValue.
func Resolve(stored map[string]string) (Values, error) {
	out := make(Values, len(schema))
	for name, k := range schema {
		out[name] = k.Default
	}
	for name, raw := range stored {
		if _, ok := schema[name]; !ok {
			continue
		}
		v, err := Validate(name, raw)
		if err != nil {
			return nil, fmt.Errorf("stored configuration: %w", err)
		}
		out[name] = v
	}
	return out, nil
}

// String returns the value of a key.
func (v Values) String(name string) string {
	return v[name]
}

// Bool returns a boolean value. Values from Resolve are already validated.
func (v Values) Bool(name string) bool {
	b, _ := strconv.ParseBool(v[name])
	return b
}

// Int returns an integer value.
func (v Values) Int(name string) int {
	n, _ := strconv.Atoi(v[name])
	return n
}

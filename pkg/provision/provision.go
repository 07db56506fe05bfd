// Package provision creates local user accounts through an interactive
// prompt flow.
package provision

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"opskit/pkg/cmdrun"
	"opskit/pkg/log"
)

// usernamePattern is the portable POSIX username format.
var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// UserExistsError is returned when the requested account already exists.
type UserExistsError struct {
	Username string
}

func (e UserExistsError) Error() string {
	return fmt.Sprintf("user %q already exists", e.Username)
}

// InvalidUsernameError is returned for names useradd would reject.
type InvalidUsernameError struct {
	Username string
}

func (e InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username %q", e.Username)
}

// Request is one provisioning request collected from the prompt flow.
type Request struct {
	Username string
	FullName string
	Groups   []string
}

// Provisioner prompts for account details and shells out to useradd.
type Provisioner struct {
	runner cmdrun.Runner
	in     *bufio.Reader
	out    io.Writer
}

// New creates a provisioner reading prompts from in and writing them to
// out. Tests pass a strings.Reader and a buffer.
func New(runner cmdrun.Runner, in io.Reader, out io.Writer) *Provisioner {
	return &Provisioner{
		runner: runner,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Prompt collects a provisioning request interactively.
func (p *Provisioner) Prompt() (*Request, error) {
	username, err := p.ask("Username: ")
	if err != nil {
		return nil, err
	}
	if !ValidUsername(username) {
		return nil, InvalidUsernameError{Username: username}
	}

	fullName, err := p.ask("Full name: ")
	if err != nil {
		return nil, err
	}

	groupsRaw, err := p.ask("Supplementary groups (comma separated, empty for none): ")
	if err != nil {
		return nil, err
	}

	req := &Request{Username: username, FullName: fullName}
	for _, g := range strings.Split(groupsRaw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			req.Groups = append(req.Groups, g)
		}
	}
	return req, nil
}

func (p *Provisioner) ask(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ValidUsername reports whether a name is acceptable to useradd.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Create provisions the account. It refuses to touch an existing user.
func (p *Provisioner) Create(ctx context.Context, req *Request) error {
	if !ValidUsername(req.Username) {
		return InvalidUsernameError{Username: req.Username}
	}

	// `id` exits zero only when the account exists.
	if _, err := p.runner.Run(ctx, "id", "-u", req.Username); err == nil {
		return UserExistsError{Username: req.Username}
	}

	args := []string{"-m", "-c", req.FullName}
	if len(req.Groups) > 0 {
		args = append(args, "-G", strings.Join(req.Groups, ","))
	}
	args = append(args, req.Username)

	if _, err := p.runner.Run(ctx, "useradd", args...); err != nil {
		return fmt.Errorf("create user %s: %w", req.Username, err)
	}

	log.Info().Str("username", req.Username).Msg("User created")
	return nil
}

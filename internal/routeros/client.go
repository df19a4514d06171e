// ABOUTME: RouterOS API adapter for the PPPoE subscriber database
// ABOUTME: Dials the router per call so backend churn never leaves a stale session behind

package routeros

import (
	"context"
	"fmt"
	"log/slog"

	ros "github.com/go-routeros/routeros/v3"
)

// Secret is a read-only projection of a PPPoE secret, used for display.
type Secret struct {
	Name    string
	Profile string
}

// Stats summarizes the subscriber database at the moment of the query.
type Stats struct {
	Online  int
	Offline int
	Total   int
}

// BackendError wraps any router connectivity, auth, or operation failure.
// The router's own message text is preserved for display to the operator.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("router %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// runner is the subset of the RouterOS connection the client uses.
type runner interface {
	Run(sentence ...string) (*ros.Reply, error)
}

// Client talks to the RouterOS API. Every operation opens its own
// connection and closes it before returning; there is no pooling, so a
// flapping router never leaves the client holding a dead session.
type Client struct {
	address  string
	username string
	password string
	logger   *slog.Logger

	// dial seam for tests; defaults to the real RouterOS dialer. The
	// returned func closes the connection.
	dial func() (runner, func(), error)
}

// New creates a Client for the RouterOS API at address (host:port).
func New(address, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		address:  address,
		username: username,
		password: password,
		logger:   logger.With("component", "routeros"),
	}
	c.dial = func() (runner, func(), error) {
		conn, err := ros.Dial(c.address, c.username, c.password)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { conn.Close() }, nil
	}
	return c
}

// ListSecrets returns all PPPoE secrets as {name, profile} pairs.
func (c *Client) ListSecrets(ctx context.Context) ([]Secret, error) {
	reply, err := c.run(ctx, "list secrets", "/ppp/secret/print", "=.proplist=name,profile")
	if err != nil {
		return nil, err
	}
	return secretsFromReply(reply), nil
}

// CountActive returns the number of currently connected PPPoE sessions.
func (c *Client) CountActive(ctx context.Context) (int, error) {
	reply, err := c.run(ctx, "list active sessions", "/ppp/active/print", "=.proplist=name")
	if err != nil {
		return 0, err
	}
	return len(reply.Re), nil
}

// ListProfiles returns the names of all PPP profiles configured on the
// router. Failures are propagated as a *BackendError rather than folded
// into an empty list, so callers can tell "backend down" from "no
// profiles configured".
func (c *Client) ListProfiles(ctx context.Context) ([]string, error) {
	reply, err := c.run(ctx, "list profiles", "/ppp/profile/print", "=.proplist=name")
	if err != nil {
		return nil, err
	}
	return profilesFromReply(reply), nil
}

// CreateSecret adds a PPPoE secret with the given credentials and profile.
// The router rejects duplicates and unknown profiles; its message comes
// back inside the *BackendError.
func (c *Client) CreateSecret(ctx context.Context, name, password, profile string) error {
	_, err := c.run(ctx, "create secret",
		"/ppp/secret/add",
		"=name="+name,
		"=password="+password,
		"=profile="+profile,
		"=service=pppoe",
	)
	if err != nil {
		return err
	}
	c.logger.Info("PPPoE secret created", "name", name, "profile", profile)
	return nil
}

// Stats derives online/offline/total counts from two queries. The counts
// are computed fresh each call, never cached.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	secrets, err := c.ListSecrets(ctx)
	if err != nil {
		return Stats{}, err
	}
	online, err := c.CountActive(ctx)
	if err != nil {
		return Stats{}, err
	}
	total := len(secrets)
	return Stats{
		Online:  online,
		Offline: total - online,
		Total:   total,
	}, nil
}

// run opens a connection, executes one command sentence, and closes the
// connection. Any failure is wrapped in a *BackendError tagged with op.
func (c *Client) run(ctx context.Context, op string, sentence ...string) (*ros.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, &BackendError{Op: op, Err: err}
	}

	conn, closeConn, err := c.dial()
	if err != nil {
		c.logger.Error("router connection failed", "op", op, "error", err)
		return nil, &BackendError{Op: op, Err: err}
	}
	defer closeConn()

	reply, err := conn.Run(sentence...)
	if err != nil {
		c.logger.Error("router command failed", "op", op, "error", err)
		return nil, &BackendError{Op: op, Err: err}
	}

	c.logger.Debug("router command ok", "op", op, "rows", len(reply.Re))
	return reply, nil
}

// secretsFromReply extracts {name, profile} pairs from a secret listing.
func secretsFromReply(reply *ros.Reply) []Secret {
	secrets := make([]Secret, 0, len(reply.Re))
	for _, re := range reply.Re {
		secrets = append(secrets, Secret{
			Name:    re.Map["name"],
			Profile: re.Map["profile"],
		})
	}
	return secrets
}

// profilesFromReply extracts profile names from a profile listing,
// skipping rows without a name.
func profilesFromReply(reply *ros.Reply) []string {
	names := make([]string, 0, len(reply.Re))
	for _, re := range reply.Re {
		if name := re.Map["name"]; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Package econ is the transport to a DDNet server's external console (econ):
// a plain TCP stream of newline-terminated text.
package econ

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBufferSize matches the original bridge's telnet buffer.
	DefaultBufferSize = 256

	// DefaultPollInterval bounds how long Read waits for data.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultConnectTimeout bounds Dial.
	DefaultConnectTimeout = 5 * time.Second
)

var (
	// ErrConnect is returned when the console connection cannot be established.
	ErrConnect = errors.New("econ connect failed")

	// ErrRead is returned when reading from the console fails.
	ErrRead = errors.New("econ read failed")

	// ErrWrite is returned when a command cannot be written.
	ErrWrite = errors.New("econ write failed")

	// ErrClosed is returned once the peer has closed the connection.
	ErrClosed = errors.New("econ connection closed")
)

// Options configures a Link. Zero fields take the package defaults.
type Options struct {
	BufferSize     int
	PollInterval   time.Duration
	ConnectTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	return o
}

// Link is a connected console. It is owned by a single read loop and is not
// safe for concurrent use.
type Link struct {
	conn     net.Conn
	buf      []byte
	interval time.Duration
}

// Dial connects to the console at host:port.
func Dial(ctx context.Context, host string, port int, opts Options) (*Link, error) {
	opts = opts.withDefaults()
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	d := net.Dialer{Timeout: opts.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}
	return NewLink(conn, opts), nil
}

// NewLink wraps an established connection.
func NewLink(conn net.Conn, opts Options) *Link {
	opts = opts.withDefaults()
	return &Link{
		conn:     conn,
		buf:      make([]byte, opts.BufferSize),
		interval: opts.PollInterval,
	}
}

// Read waits up to the poll interval for one chunk of console text.
// ok is false when no data arrived (deadline expired or the chunk was only
// NUL padding); that is not an error. A chunk may hold several lines, and a
// line may be split across chunks.
func (l *Link) Read() (text string, ok bool, err error) {
	if err := l.conn.SetReadDeadline(time.Now().Add(l.interval)); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrRead, err)
	}

	n, err := l.conn.Read(l.buf)
	if n > 0 {
		text = Decode(l.buf[:n])
		return text, text != "", nil
	}

	var ne net.Error
	switch {
	case err == nil:
		return "", false, nil
	case errors.As(err, &ne) && ne.Timeout():
		return "", false, nil
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return "", false, fmt.Errorf("%w: %w", ErrClosed, err)
	default:
		return "", false, fmt.Errorf("%w: %w", ErrRead, err)
	}
}

// Send writes command followed by a newline. Embedded newlines are flattened
// to spaces so one call is always one console command.
func (l *Link) Send(command string) error {
	command = strings.NewReplacer("\r", " ", "\n", " ").Replace(command)
	if _, err := io.WriteString(l.conn, command+"\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close closes the underlying connection.
func (l *Link) Close() error {
	return l.conn.Close()
}

// Decode converts raw console bytes to text: invalid UTF-8 becomes U+FFFD and
// NUL bytes are dropped.
func Decode(b []byte) string {
	s := strings.ToValidUTF8(string(b), "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "")
}

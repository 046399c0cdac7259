// Package session manages the shared ZooKeeper connection.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
	"go.uber.org/zap"

	"zoobench/internal/core"
)

// Session wraps the single connection shared by all workers. The underlying
// zk client serializes request dispatch internally, so Create and Read are
// safe for concurrent use without external locking.
type Session struct {
	conn   *zk.Conn
	logger *zap.Logger
	acl    []zk.ACL
}

var _ core.Session = (*Session)(nil)

// Dial establishes the session. The attempt is bounded by timeout; on expiry
// the connection is torn down and the error wraps core.ErrConnectTimeout.
func Dial(hosts string, timeout time.Duration, logger *zap.Logger) (*Session, error) {
	servers := strings.Split(hosts, ",")
	// The zk client rejects session timeouts under a second; the connect
	// attempt itself is still bounded by the caller's timeout below.
	sessionTimeout := timeout
	if sessionTimeout < time.Second {
		sessionTimeout = time.Second
	}
	conn, events, err := zk.Connect(servers, sessionTimeout,
		zk.WithLogger(zkLogger{logger.Sugar()}),
		zk.WithLogInfo(false),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", hosts, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				conn.Close()
				return nil, fmt.Errorf("connect %s: session event channel closed", hosts)
			}
			logEvent(logger, ev)
			if ev.State == zk.StateHasSession {
				s := &Session{
					conn:   conn,
					logger: logger,
					acl:    zk.WorldACL(zk.PermAll),
				}
				go s.watch(events)
				return s, nil
			}
		case <-timer.C:
			conn.Close()
			return nil, fmt.Errorf("connect %s: %w", hosts, core.ErrConnectTimeout)
		}
	}
}

// watch drains session events for the lifetime of the connection so the zk
// client never blocks on the event channel.
func (s *Session) watch(events <-chan zk.Event) {
	for ev := range events {
		logEvent(s.logger, ev)
	}
}

func logEvent(logger *zap.Logger, ev zk.Event) {
	logger.Debug("session event",
		zap.String("type", ev.Type.String()),
		zap.String("state", ev.State.String()),
		zap.String("server", ev.Server),
	)
}

// Create makes one znode. Ephemeral nodes vanish when the session closes.
func (s *Session) Create(path string, data []byte, ephemeral bool) error {
	var flags int32
	if ephemeral {
		flags = zk.FlagEphemeral
	}
	_, err := s.conn.Create(path, data, flags, s.acl)
	return err
}

// AddDigestAuth registers digest credentials ("user:password") on the
// session before any benchmark pass runs.
func (s *Session) AddDigestAuth(digest string) error {
	return s.conn.AddAuth("digest", []byte(digest))
}

// Read fetches one znode's value, discarding it; only latency and outcome
// matter to the benchmark.
func (s *Session) Read(path string) error {
	_, _, err := s.conn.Get(path)
	return err
}

// Close releases the session. Called once, after all workers have joined
// and the final statistics are consumed.
func (s *Session) Close() {
	s.conn.Close()
}

// zkLogger routes the zk client's internal logging into zap at debug level.
type zkLogger struct {
	s *zap.SugaredLogger
}

func (l zkLogger) Printf(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}

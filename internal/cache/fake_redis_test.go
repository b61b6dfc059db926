package cache

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeRedis speaks enough RESP2 for the cache: PING, GET and SET with EX/PX.
// Everything else gets an error reply, which go-redis tolerates for its
// connection handshake.
type fakeRedis struct {
	addr string

	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func startFakeRedis(t *testing.T) *fakeRedis {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakeRedis{addr: ln.Addr().String(), data: map[string]string{}, ttl: map[string]time.Duration{}}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f
}

func (f *fakeRedis) serve(conn net.Conn) {
	defer conn.Close()
	rd := bufio.NewReader(conn)
	for {
		args, err := readCommand(rd)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, f.exec(args)); err != nil {
			return
		}
	}
}

func (f *fakeRedis) exec(args []string) string {
	if len(args) == 0 {
		return "-ERR empty command\r\n"
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "GET":
		v, ok := f.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
	case "SET":
		f.data[args[1]] = args[2]
		delete(f.ttl, args[1])
		if len(args) >= 5 {
			n, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return "-ERR value is not an integer\r\n"
			}
			switch strings.ToUpper(args[3]) {
			case "EX":
				f.ttl[args[1]] = time.Duration(n) * time.Second
			case "PX":
				f.ttl[args[1]] = time.Duration(n) * time.Millisecond
			}
		}
		return "+OK\r\n"
	default:
		return "-ERR unknown command '" + args[0] + "'\r\n"
	}
}

func (f *fakeRedis) expiry(k string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.ttl[k]
	return d, ok
}

// readCommand reads one RESP array of bulk strings.
func readCommand(rd *bufio.Reader) ([]string, error) {
	n, err := readHeader(rd, '*')
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		size, err := readHeader(rd, '$')
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(rd, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readHeader(rd *bufio.Reader, kind byte) (int, error) {
	line, err := rd.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" || line[0] != kind {
		return 0, fmt.Errorf("unexpected RESP header %q", line)
	}
	return strconv.Atoi(line[1:])
}

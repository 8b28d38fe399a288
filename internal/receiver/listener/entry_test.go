package listener

import (
	"context"
	"net"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/internal/queue/handoff"
	"sensorweb/pkg/message"
	"testing"
	"time"
)

func setupLoopback(t *testing.T, bufferSize int, capacity int, policy handoff.Policy) (ctx context.Context, instance *Instance, sender *net.UDPConn, done func()) {
	t.Helper()

	logDone := make(chan struct{})
	baseCtx := logctx.New(context.Background(), global.NSTest, global.VerbosityDebug, logDone)
	ctx, cancel := context.WithCancel(baseCtx)

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to bind loopback socket: %v", err)
	}
	sender, err = net.DialUDP("udp4", nil, conn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("failed to dial loopback socket: %v", err)
	}

	sink, err := handoff.New[message.NetworkMessage]([]string{global.NSTest}, capacity, policy)
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}
	instance = New([]string{global.NSTest}, conn, bufferSize, sink)

	stopped := make(chan struct{})
	go func() {
		instance.Run(ctx)
		close(stopped)
	}()

	done = func() {
		cancel()
		_ = conn.Close()
		_ = sender.Close()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Errorf("listener did not stop after socket close")
		}
		close(logDone)
	}
	return
}

func popWithTimeout(t *testing.T, sink *handoff.Sink[message.NetworkMessage]) (msg message.NetworkMessage) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, ok := sink.Pop(ctx)
	if !ok {
		t.Fatal("no event dispatched in time")
	}
	return
}

func TestListener_DecodesDatagrams(t *testing.T) {
	_, instance, sender, done := setupLoopback(t, global.DefaultReceiveBufferSize, 0, handoff.Block)
	defer done()

	tests := []struct {
		datagram string
		wantHost string
		wantKind message.Kind
	}{
		{"ESP_D427A9: [2.89900] UP: 1.0:May 14 2017 01:34:24@192.168.1.29\r\n", "ESP_D427A9", message.KindNodeUp},
		{"  ESP_D427A9: [11.06000] AC:push: Code 200  ", "ESP_D427A9", message.KindAirCasting},
		{"ESP_00FF11: [8.14600] SessionUUID: d687fe3f-2d30-352d-0c21-ff3f2cea2040", "ESP_00FF11", message.KindSession},
		{"garbage without structure", "garbage without structure", message.KindUnknown},
	}

	for _, tt := range tests {
		_, err := sender.Write([]byte(tt.datagram))
		if err != nil {
			t.Fatalf("send failed: %v", err)
		}

		msg := popWithTimeout(t, instance.Outbox)
		if msg.Host != tt.wantHost || msg.Kind() != tt.wantKind {
			t.Errorf("datagram %q: got host %q kind %s, want %q %s", tt.datagram, msg.Host, msg.Kind(), tt.wantHost, tt.wantKind)
		}
	}

	if got := instance.Metrics.Datagrams.Load(); got != uint64(len(tests)) {
		t.Errorf("datagram counter: got %d want %d", got, len(tests))
	}
	if got := instance.Metrics.Kinds[message.KindNodeUp].Load(); got != 1 {
		t.Errorf("nodeup counter: got %d want 1", got)
	}
}

func TestListener_TruncatesOversizedDatagram(t *testing.T) {
	_, instance, sender, done := setupLoopback(t, 32, 1, handoff.Block)
	defer done()

	line := "ESP_D427A9: [7.97900] NTPSyncEvent: 16:24:59 30/05/2017"
	if _, err := sender.Write([]byte(line)); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msg := popWithTimeout(t, instance.Outbox)

	// First 32 bytes: "ESP_D427A9: [7.97900] NTPSyncEve"
	if msg.Host != "ESP_D427A9" {
		t.Errorf("host: got %q", msg.Host)
	}
	if msg.ElapsedSeconds != 7.979 {
		t.Errorf("elapsed: got %v", msg.ElapsedSeconds)
	}
	if msg.Kind() != message.KindUnknown {
		t.Errorf("truncated identifier should be unknown, got %s", msg.Kind())
	}
	if got := instance.Metrics.Truncated.Load(); got != 1 {
		t.Errorf("truncation counter: got %d want 1", got)
	}
}

func TestListener_InvalidUTF8Replaced(t *testing.T) {
	_, instance, sender, done := setupLoopback(t, global.DefaultReceiveBufferSize, 1, handoff.Block)
	defer done()

	if _, err := sender.Write([]byte("ESP\xff_1: [1.5] SessionUUID: a-b")); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msg := popWithTimeout(t, instance.Outbox)
	if msg.Host != "ESP\uFFFD_1" {
		t.Errorf("host: got %q", msg.Host)
	}
	if msg.Fields()[message.FieldUUID] != "a-b" {
		t.Errorf("fields: got %v", msg.Fields())
	}
	if instance.Metrics.InvalidUTF8.Load() != 1 {
		t.Errorf("invalid utf8 counter not incremented")
	}
}

func TestListener_DropPolicyKeepsReading(t *testing.T) {
	_, instance, sender, done := setupLoopback(t, global.DefaultReceiveBufferSize, 0, handoff.Drop)
	defer done()

	// Nobody is popping, every dispatch fails but reading must continue
	for i := 0; i < 3; i++ {
		if _, err := sender.Write([]byte("ESP_D427A9: [1.0] UP: 1.0")); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for instance.Metrics.DispatchFails.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 dispatch failures, got %d", instance.Metrics.DispatchFails.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}

	if got := instance.Metrics.Datagrams.Load(); got != 3 {
		t.Errorf("datagrams: got %d want 3", got)
	}
}

func TestListener_CollectMetrics(t *testing.T) {
	instance := New([]string{global.NSRecv}, nil, 0, nil)
	instance.Metrics.Datagrams.Add(5)
	instance.Metrics.Kinds[message.KindLoop].Add(2)
	instance.Metrics.BusyNs.Add(uint64(500 * time.Millisecond))

	collected := instance.CollectMetrics(time.Second)
	byName := make(map[string]any)
	for _, metric := range collected {
		byName[metric.Name] = metric.Value.Raw
	}

	if byName["datagrams_received"] != uint64(5) {
		t.Errorf("datagrams_received: got %v", byName["datagrams_received"])
	}
	if byName["decoded_loop"] != uint64(2) {
		t.Errorf("decoded_loop: got %v", byName["decoded_loop"])
	}
	if byName["busy_time_percent"] != 50.0 {
		t.Errorf("busy_time_percent: got %v", byName["busy_time_percent"])
	}
	if instance.bufferSize != global.DefaultReceiveBufferSize {
		t.Errorf("default buffer size not applied: %d", instance.bufferSize)
	}
}

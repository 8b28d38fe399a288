package receiver

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
	"strings"
	"testing"
	"time"
)

func TestDaemon_MulticastToFile(t *testing.T) {
	logDone := make(chan struct{})
	defer close(logDone)
	ctx := logctx.New(context.Background(), global.NSTest, global.VerbosityNone, logDone)

	outPath := filepath.Join(t.TempDir(), "events.jsonl")
	port := 20000 + os.Getpid()%20000

	daemon := NewDaemon(Config{
		MulticastGroup: "239.77.0.1",
		ListenPort:     port,
		LogEvents:      true,
		OutputFilePath: outPath,
	})
	err := daemon.Start(ctx)
	if err != nil {
		t.Skipf("multicast not available in this environment: %v", err)
	}

	sender, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("239.77.0.1"), Port: port})
	if err != nil {
		daemon.Shutdown()
		t.Skipf("cannot send to multicast group: %v", err)
	}
	defer sender.Close()

	line := "ESP_D427A9: [2.89900] UP: 1.0:May 14 2017 01:34:24@192.168.1.29"
	deadline := time.Now().Add(2 * time.Second)
	for daemon.Worker.Metrics.ReceivedEvents.Load() == 0 {
		if time.Now().After(deadline) {
			daemon.Shutdown()
			t.Skip("multicast loopback not delivered in this environment")
		}
		_, _ = sender.Write([]byte(line))
		time.Sleep(50 * time.Millisecond)
	}

	daemon.Shutdown()
	daemon.Shutdown() // idempotent

	select {
	case <-daemon.ctx.Done():
	default:
		t.Fatal("daemon context still live after shutdown")
	}
	if !daemon.Sink.Closed() {
		t.Fatal("sink not closed after shutdown")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	first, _, _ := strings.Cut(string(data), "\n")
	var event message.Event
	if err := json.Unmarshal([]byte(first), &event); err != nil {
		t.Fatalf("output not JSON lines: %v", err)
	}
	if event.Host != "ESP_D427A9" || event.Kind != "nodeup" {
		t.Errorf("got host %q kind %q", event.Host, event.Kind)
	}
}

func TestDaemon_StartFailsOnBadOutput(t *testing.T) {
	logDone := make(chan struct{})
	defer close(logDone)
	ctx := logctx.New(context.Background(), global.NSTest, global.VerbosityNone, logDone)

	daemon := NewDaemon(Config{
		OutputFilePath: filepath.Join(t.TempDir(), "missing-dir", "events.jsonl"),
	})
	err := daemon.Start(ctx)
	if err == nil {
		daemon.Shutdown()
		t.Fatal("expected startup error for unwritable output path")
	}
	if daemon.Membership != nil {
		t.Fatal("socket joined despite output failure")
	}

	// Failed start already shut down, Run must not block
	returned := make(chan struct{})
	go func() {
		daemon.Run()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Run blocked after failed start")
	}
}

func TestDaemon_ReloadWithoutOutputs(t *testing.T) {
	daemon := NewDaemon(Config{})
	if err := daemon.Reload(context.Background()); err != nil {
		t.Fatalf("reload on unstarted daemon: %v", err)
	}
}

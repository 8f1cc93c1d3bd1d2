package persist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-grievance/pkg/persist"
	"github.com/goliatone/go-grievance/pkg/session"
	"github.com/goliatone/go-grievance/pkg/testsupport"
)

var fixedTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("IST", 5*3600+1800))

func newSink(t *testing.T, options ...persist.Option) (*persist.Sink, string) {
	t.Helper()
	root := t.TempDir()
	base := []persist.Option{
		persist.WithOutputDir(filepath.Join(root, "outputs")),
		persist.WithLogDir(filepath.Join(root, "logs")),
		persist.WithClock(testsupport.FixedClock(fixedTime)),
	}
	return persist.NewSink(append(base, options...)...), root
}

func TestSink_SaveWritesPacketAndLog(t *testing.T) {
	sink, root := newSink(t)
	answers := session.Answers{"name": "Asha <Rao>", "has_policy": true}

	res, err := sink.Save(context.Background(), "irdai_bima_bharosa", "PACKET", answers)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	wantPacket := filepath.Join(root, "outputs", "packet_20260303_233607.txt")
	wantLog := filepath.Join(root, "logs", "session_20260303_233607.json")
	if res.PacketPath != wantPacket || res.LogPath != wantLog {
		t.Fatalf("unexpected paths: %+v", res)
	}

	packetData, err := os.ReadFile(res.PacketPath)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}
	if string(packetData) != "PACKET" {
		t.Fatalf("packet = %q", packetData)
	}

	logData, err := os.ReadFile(res.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	wantJSON := "{\n  \"schema\": \"irdai_bima_bharosa\",\n  \"answers\": {\n    \"has_policy\": true,\n    \"name\": \"Asha <Rao>\"\n  }\n}"
	if diff := cmp.Diff(wantJSON, string(logData)); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}

	entry, err := persist.LoadLog(res.LogPath)
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if diff := cmp.Diff(persist.Log{Schema: "irdai_bima_bharosa", Answers: answers}, entry); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSink_SameSecondOverwrites(t *testing.T) {
	sink, root := newSink(t)

	first, err := sink.Save(context.Background(), "p", "first", session.Answers{"n": "1"})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := sink.Save(context.Background(), "p", "second", session.Answers{"n": "2"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical targets, got %+v and %+v", first, second)
	}

	data, err := os.ReadFile(second.PacketPath)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected second write to win, got %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "outputs"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one packet file, got %d", len(entries))
	}
}

func TestSink_UniqueSuffixAvoidsCollisions(t *testing.T) {
	sink, root := newSink(t, persist.WithUniqueSuffix(true))

	first, err := sink.Save(context.Background(), "p", "first", nil)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := sink.Save(context.Background(), "p", "second", nil)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.PacketPath == second.PacketPath || first.Timestamp != second.Timestamp {
		t.Fatalf("expected distinct files sharing a timestamp: %+v %+v", first, second)
	}

	entries, err := os.ReadDir(filepath.Join(root, "logs"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two log files, got %d", len(entries))
	}
}

func TestSink_WriteFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "outputs")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	sink := persist.NewSink(persist.WithOutputDir(blocker), persist.WithLogDir(filepath.Join(root, "logs")))
	if _, err := sink.Save(context.Background(), "p", "x", nil); err == nil {
		t.Fatalf("expected error when output dir is a file")
	}
}

func TestEncodeLog_NilAnswers(t *testing.T) {
	data, err := persist.EncodeLog(persist.Log{Schema: "p"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != "{\n  \"schema\": \"p\",\n  \"answers\": {}\n}" {
		t.Fatalf("unexpected encoding %q", data)
	}
}

package topics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/topicmgr"
)

func TestCatalog_ContainsRelayTopics(t *testing.T) {
	for _, name := range []string{
		"chat.user.joined",
		"chat.user.left",
		"chat.message.sent",
		"chat.direct.sent",
		"ws.connection.opened",
		"ws.connection.closed",
	} {
		_, ok := Catalog().Get(name)
		assert.True(t, ok, name)
	}
}

func TestModuleLabel(t *testing.T) {
	chat, ok := Catalog().Get("chat.user.joined")
	require.True(t, ok)
	ws, ok := Catalog().Get("ws.connection.opened")
	require.True(t, ok)

	assert.Equal(t, "Chat", ModuleLabel(chat))
	assert.Equal(t, "Framework", ModuleLabel(ws))
}

func TestDisplayTopicsTable(t *testing.T) {
	topic, _ := Catalog().Get("chat.message.sent")

	var buf bytes.Buffer
	DisplayTopicsTable(&buf, []topicmgr.Topic{topic})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "chat.message.sent")
	assert.Contains(t, out, "Chat")
}

func TestDisplayTopicsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayTopicsJSON(&buf, Catalog().ListByModule("chat")))

	var out struct {
		Topics []TopicDisplay `json:"topics"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 4, out.Count)
	assert.Equal(t, "chat.direct.sent", out.Topics[0].Name)
	assert.Equal(t, `{"username":"","connID":"","reason":""}`, findExample(out.Topics, "chat.user.left"))
}

func TestDisplayTopicDetails(t *testing.T) {
	topic, _ := Catalog().Get("chat.user.left")

	var buf bytes.Buffer
	require.NoError(t, DisplayTopicDetails(&buf, topic, "table"))

	out := buf.String()
	assert.Contains(t, out, "Name:        chat.user.left")
	assert.Contains(t, out, "Module:      Chat")
	assert.Contains(t, out, "payload_fields: [username connID reason]")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "...", truncateString("abcdef", 2))
}

func findExample(list []TopicDisplay, name string) string {
	for _, d := range list {
		if d.Name == name {
			return d.Example
		}
	}
	return ""
}

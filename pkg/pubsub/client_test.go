package pubsub

import (
	"context"
	"testing"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "farmsip-prod"}

	cases := []struct {
		in   string
		want string
	}{
		{in: "farm-setup-commands", want: "projects/farmsip-prod/topics/farm-setup-commands"},
		{in: "  farm-setup-commands  ", want: "projects/farmsip-prod/topics/farm-setup-commands"},
		{in: "projects/other/topics/farm-setup-commands", want: "projects/other/topics/farm-setup-commands"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := c.topicResourceName(tc.in); got != tc.want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := (&Client{}).topicResourceName("topic"); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("topic") != nil {
		t.Fatal("expected nil publisher from nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from nil client")
	}
	if _, err := (&TopicPublisher{}).Publish(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error from empty publisher")
	}
}

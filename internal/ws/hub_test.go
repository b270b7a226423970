package ws

import "testing"

func recv(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case payload := <-c.out:
		return string(payload)
	default:
		t.Fatal("expected a queued message")
		return ""
	}
}

func TestHubRoutesByChannel(t *testing.T) {
	hub := NewHub()
	branchClient := NewClient(nil)
	loanClient := NewClient(nil)

	hub.Subscribe("branch:payments:b-1", branchClient)
	hub.Subscribe("loan:activity:l-1", loanClient)

	hub.Publish("branch:payments:b-1", []byte("branch-event"))
	hub.Publish("loan:activity:l-1", []byte("loan-event"))
	hub.Publish("loan:activity:l-2", []byte("other-loan"))

	if got := recv(t, branchClient); got != "branch-event" {
		t.Fatalf("branch client got %q", got)
	}
	if got := recv(t, loanClient); got != "loan-event" {
		t.Fatalf("loan client got %q", got)
	}
	select {
	case payload := <-loanClient.out:
		t.Fatalf("unexpected extra message %q", payload)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil)
	b := NewClient(nil)
	hub.Subscribe("branch:payments:b-1", a)
	hub.Subscribe("branch:payments:b-1", b)

	hub.Publish("branch:payments:b-1", []byte("x"))

	if recv(t, a) != "x" || recv(t, b) != "x" {
		t.Fatal("both subscribers should receive the message")
	}
}

func TestHubUnsubscribeAll(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil)
	hub.Subscribe("branch:payments:b-1", c)
	hub.Subscribe("loan:activity:l-1", c)

	hub.UnsubscribeAll(c)
	hub.Publish("branch:payments:b-1", []byte("x"))
	hub.Publish("loan:activity:l-1", []byte("y"))

	select {
	case payload := <-c.out:
		t.Fatalf("unsubscribed client received %q", payload)
	default:
	}
}

func TestSubscriptionTopic(t *testing.T) {
	cases := []struct {
		msg  subscribeMessage
		want string
	}{
		{subscribeMessage{Channel: "branch:payments", BranchID: "b-1"}, "branch:payments:b-1"},
		{subscribeMessage{Channel: "Branch:Payments", BranchID: "b-1"}, "branch:payments:b-1"},
		{subscribeMessage{Channel: "loan:activity", LoanID: "l-9"}, "loan:activity:l-9"},
		{subscribeMessage{Channel: "branch:payments"}, ""},
		{subscribeMessage{Channel: "loan:activity"}, ""},
		{subscribeMessage{Channel: "unknown", LoanID: "l-9"}, ""},
	}
	for _, tc := range cases {
		if got := subscriptionTopic(tc.msg); got != tc.want {
			t.Fatalf("subscriptionTopic(%+v) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

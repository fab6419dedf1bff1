package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestEmailNotifier(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	n := NewEmailNotifier("re_key", "site@example.com", []string{"owner@example.com"})
	n.endpoint = srv.URL

	err := n.Notify(context.Background(), Notification{Subject: "Hi", HTML: "<p>Hi</p>", ReplyTo: "ada@example.com"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if auth != "Bearer re_key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Subject != "Hi" || got.ReplyTo != "ada@example.com" || len(got.To) != 1 {
		t.Errorf("payload = %+v", got)
	}
}

func TestEmailNotifierAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	n := NewEmailNotifier("re_key", "site@example.com", []string{"owner@example.com"})
	n.endpoint = srv.URL

	err := n.Notify(context.Background(), Notification{Subject: "Hi"})
	if err == nil || !strings.Contains(err.Error(), "invalid from address") {
		t.Fatalf("err = %v", err)
	}
}

func TestNotifiersDisabledWithoutConfig(t *testing.T) {
	if NewEmailNotifier("", "a@b.co", []string{"c@d.co"}) != nil {
		t.Error("email notifier built without API key")
	}
	if NewSMSNotifier("sid", "token", "+15550000000", nil) != nil {
		t.Error("sms notifier built without recipients")
	}
}

type fakeMessages struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier(t *testing.T) {
	api := &fakeMessages{}
	n := &SMSNotifier{api: api, from: "+15550000000", to: []string{"+15551111111", "+15552222222"}}

	long := strings.Repeat("x", 2000)
	if err := n.Notify(context.Background(), Notification{Text: long}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(api.params) != 2 {
		t.Fatalf("sent %d messages, want 2", len(api.params))
	}
	if *api.params[1].To != "+15552222222" || *api.params[0].From != "+15550000000" {
		t.Errorf("unexpected params %+v", api.params[1])
	}
	if len(*api.params[0].Body) != 1500 {
		t.Errorf("body length = %d, want 1500", len(*api.params[0].Body))
	}

	accented := "a" + strings.Repeat("é", 800)
	if err := n.Notify(context.Background(), Notification{Text: accented}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	body := *api.params[len(api.params)-1].Body
	if !utf8.ValidString(body) || len(body) != 1499 {
		t.Errorf("accented body: valid=%v len=%d", utf8.ValidString(body), len(body))
	}

	api.err = errors.New("invalid number")
	if err := n.Notify(context.Background(), Notification{Text: "hi"}); err == nil {
		t.Fatal("expected error")
	}
}

package internal

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"
	"github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
)

func BuildTestIMAPServer(t *testing.T) (*server.Server, string, *memory.Mailbox) {
	be := memory.New()
	user, err := be.Login(nil, "username", "password")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mb, err := user.GetMailbox("INBOX")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mailbox := mb.(*memory.Mailbox)
	mailbox.Messages = nil

	s := server.New(be)
	t.Cleanup(func() { _ = s.Close() })

	s.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	go func() { err = s.Serve(l) }()

	return s, l.Addr().String(), mailbox
}

// AppendMessage adds a plain-text message to the mailbox.
func AppendMessage(t *testing.T, mbox *memory.Mailbox, from string, to string, subject string, date time.Time, body string) {
	hdr := message.Header{}
	hdr.Add("From", from)
	hdr.Add("To", to)
	hdr.Add("Subject", subject)
	hdr.Add("Date", date.Format(time.RFC1123Z))
	hdr.Add("Content-Type", "text/plain")

	msg, err := message.New(hdr, strings.NewReader(body))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	bb := new(bytes.Buffer)
	err = msg.WriteTo(bb)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	err = mbox.CreateMessage([]string{}, date, bb)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
}

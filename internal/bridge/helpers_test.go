package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// fakeDirectory is an in-memory Directory with the same conditional-insert
// semantics as the real store: the address pair is the uniqueness key.
type fakeDirectory struct {
	mu            sync.Mutex
	conversations []Conversation
	triggers      map[string]Trigger
	responses     []CannedResponse
	nextID        int

	pairErr    error
	byChErr    error
	setNameErr func(id string) error
	avatarErr  func(id string) error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{triggers: map[string]Trigger{}}
}

func (d *fakeDirectory) ConversationByPair(_ context.Context, sender, receiver string) (Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pairErr != nil {
		return Conversation{}, d.pairErr
	}
	for _, c := range d.conversations {
		if c.SenderAddress == sender && c.ReceiverAddress == receiver {
			return c, nil
		}
	}
	return Conversation{}, ErrNotFound
}

func (d *fakeDirectory) CreateConversation(_ context.Context, conv Conversation) (Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.conversations {
		if c.SenderAddress == conv.SenderAddress && c.ReceiverAddress == conv.ReceiverAddress {
			return Conversation{}, ErrConversationExists
		}
	}
	d.nextID++
	conv.ID = fmt.Sprintf("conv-%d", d.nextID)
	d.conversations = append(d.conversations, conv)
	return conv, nil
}

func (d *fakeDirectory) ConversationsByChannel(_ context.Context, channelID string) ([]Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byChErr != nil {
		return nil, d.byChErr
	}
	var out []Conversation
	for _, c := range d.conversations {
		if c.ChannelID == channelID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *fakeDirectory) SetConversationName(_ context.Context, id, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.setNameErr != nil {
		if err := d.setNameErr(id); err != nil {
			return err
		}
	}
	for i := range d.conversations {
		if d.conversations[i].ID == id {
			d.conversations[i].DisplayName = name
			return nil
		}
	}
	return ErrNotFound
}

func (d *fakeDirectory) SetConversationAvatar(_ context.Context, id, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.avatarErr != nil {
		if err := d.avatarErr(id); err != nil {
			return err
		}
	}
	for i := range d.conversations {
		if d.conversations[i].ID == id {
			d.conversations[i].AvatarURL = url
			return nil
		}
	}
	return ErrNotFound
}

func (d *fakeDirectory) TriggerByID(_ context.Context, id string) (Trigger, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.triggers[id]
	if !ok {
		return Trigger{}, ErrNotFound
	}
	return t, nil
}

func (d *fakeDirectory) ResponseByID(_ context.Context, id string) (CannedResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.responses {
		if r.ID == id {
			return r, nil
		}
	}
	return CannedResponse{}, ErrNotFound
}

func (d *fakeDirectory) ListResponses(_ context.Context) ([]CannedResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]CannedResponse(nil), d.responses...), nil
}

func (d *fakeDirectory) CreateResponse(_ context.Context, message string) (CannedResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	r := CannedResponse{ID: fmt.Sprintf("resp-%d", d.nextID), Message: message}
	d.responses = append(d.responses, r)
	return r, nil
}

func (d *fakeDirectory) conversationByID(id string) (Conversation, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}

type chatPost struct {
	ChannelID string
	Text      string
	Username  string
	IconURL   string
}

type fakeChat struct {
	mu            sync.Mutex
	created       []CreatedChannel
	invited       []string
	posts         []chatPost
	operatorPosts []chatPost
	deleted       []string
	pickers       [][]CannedResponse
	history       []ChatMessage
	createErr     error
	postErr       error
}

func (c *fakeChat) CreateChannel(_ context.Context, name string) (CreatedChannel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return CreatedChannel{}, c.createErr
	}
	ch := CreatedChannel{ID: fmt.Sprintf("C%03d", len(c.created)+1), Name: name}
	c.created = append(c.created, ch)
	return ch, nil
}

func (c *fakeChat) InviteBridgeUser(_ context.Context, channelID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invited = append(c.invited, channelID)
	return nil
}

func (c *fakeChat) PostMessage(_ context.Context, channelID, text, username, iconURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.postErr != nil {
		return c.postErr
	}
	c.posts = append(c.posts, chatPost{ChannelID: channelID, Text: text, Username: username, IconURL: iconURL})
	return nil
}

func (c *fakeChat) PostAsOperator(_ context.Context, channelID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operatorPosts = append(c.operatorPosts, chatPost{ChannelID: channelID, Text: text})
	return nil
}

func (c *fakeChat) DeleteMessage(_ context.Context, channelID, messageTS string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, channelID+"/"+messageTS)
	return nil
}

func (c *fakeChat) History(_ context.Context, _ string, _ int) ([]ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatMessage(nil), c.history...), nil
}

func (c *fakeChat) PostResponsePicker(_ context.Context, _ string, responses []CannedResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pickers = append(c.pickers, responses)
	return nil
}

type smsSend struct {
	From, To, Body string
}

type fakeSMS struct {
	mu    sync.Mutex
	sends []smsSend
	err   func(to string) error
}

func (s *fakeSMS) Send(_ context.Context, from, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		if err := s.err(to); err != nil {
			return err
		}
	}
	s.sends = append(s.sends, smsSend{From: from, To: to, Body: body})
	return nil
}

func (s *fakeSMS) all() []smsSend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]smsSend(nil), s.sends...)
}

type fixture struct {
	svc  *Service
	dir  *fakeDirectory
	chat *fakeChat
	sms  *fakeSMS
}

func newFixture() fixture {
	dir := newFakeDirectory()
	chat := &fakeChat{}
	sms := &fakeSMS{}
	svc := NewService(slog.Default(), dir, chat, sms, Options{
		BotID:           "B042",
		ChannelPrefix:   "sms",
		TriggerToken:    "sesame",
		HistoryLimit:    50,
		ExternalTimeout: 5 * time.Second,
	})
	return fixture{svc: svc, dir: dir, chat: chat, sms: sms}
}

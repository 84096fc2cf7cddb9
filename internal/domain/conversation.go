package domain

type Conversation struct {
	ID            string `db:"id" json:"id"`
	ProductID     string `db:"product_id" json:"product_id,omitempty"`
	LastMessageAt string `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

type Message struct {
	ID             string `db:"id" json:"id"`
	ConversationID string `db:"conversation_id" json:"conversation_id"`
	SenderID       string `db:"sender_id" json:"sender_id"`
	Content        string `db:"content" json:"content"`
	ImagePath      string `db:"image_path" json:"image_path,omitempty"`
	CreatedAt      string `db:"created_at" json:"created_at"`
}

// MessageView is a message with its sender's public profile attached.
type MessageView struct {
	Message
	Sender PublicProfile `json:"sender"`
}

// ConversationSummary is one row of a user's inbox: the other participant,
// the linked product (if any) and the most recent message. UnreadCount is
// always zero; there is no read-receipt model.
type ConversationSummary struct {
	Conversation
	Other       PublicProfile `json:"other"`
	Product     *Product      `json:"product,omitempty"`
	LastMessage *Message      `json:"last_message,omitempty"`
	UnreadCount int           `json:"unread_count"`
}

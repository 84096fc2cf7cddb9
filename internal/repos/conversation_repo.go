package repos

import (
	"database/sql"

	"givetzy/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ConversationRepo struct{ db *sqlx.DB }

func NewConversationRepo(db *sqlx.DB) *ConversationRepo { return &ConversationRepo{db: db} }

func (r *ConversationRepo) Beginx() (*sqlx.Tx, error) { return r.db.Beginx() }

func (r *ConversationRepo) Get(id string) (domain.Conversation, error) {
	var cv domain.Conversation
	err := r.db.Get(&cv, `
	  SELECT id, COALESCE(product_id,'') AS product_id,
	         COALESCE(last_message_at,'') AS last_message_at, created_at
	  FROM conversations WHERE id = ?
	`, id)
	return cv, err
}

func (r *ConversationRepo) IsParticipant(conversationID, userID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM conversation_participants
	  WHERE conversation_id = ? AND user_id = ?
	`, conversationID, userID)
	return n > 0, err
}

// FindBetween locates the direct conversation between two users scoped to a
// product ("" for unscoped). Returns "" when none exists.
func (r *ConversationRepo) FindBetween(userA, userB, productID string) (string, error) {
	var id string
	err := r.db.Get(&id, `
	  SELECT c.id
	  FROM conversations c
	  JOIN conversation_participants pa ON pa.conversation_id = c.id AND pa.user_id = ?
	  JOIN conversation_participants pb ON pb.conversation_id = c.id AND pb.user_id = ?
	  WHERE COALESCE(c.product_id,'') = ?
	  LIMIT 1
	`, userA, userB, productID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// CreateWithParticipants inserts the conversation and both junction rows
// inside the caller's DB transaction.
func (r *ConversationRepo) CreateWithParticipants(tx *sqlx.Tx, id, productID, userA, userB string) error {
	if _, err := tx.Exec(`INSERT INTO conversations(id,product_id) VALUES(?,?)`, id, productID); err != nil {
		return err
	}
	_, err := tx.Exec(`
	  INSERT INTO conversation_participants(conversation_id,user_id) VALUES(?,?),(?,?)
	`, id, userA, id, userB)
	return err
}

func (r *ConversationRepo) InsertMessage(tx *sqlx.Tx, m *domain.Message) error {
	if _, err := tx.Exec(`
	  INSERT INTO messages(id,conversation_id,sender_id,content,image_path)
	  VALUES(?,?,?,?,?)
	`, m.ID, m.ConversationID, m.SenderID, m.Content, m.ImagePath); err != nil {
		return err
	}
	_, err := tx.Exec(`
	  UPDATE conversations SET last_message_at=CURRENT_TIMESTAMP WHERE id=?
	`, m.ConversationID)
	return err
}

// Messages returns the conversation oldest-first. created_at only has
// second granularity, so rowid breaks ties in insertion order.
func (r *ConversationRepo) Messages(conversationID string) ([]domain.MessageView, error) {
	type row struct {
		domain.Message
		SenderName   string `db:"sender_name"`
		SenderAvatar string `db:"sender_avatar"`
	}
	rows := []row{}
	err := r.db.Select(&rows, `
	  SELECT m.id, m.conversation_id, m.sender_id, m.content,
	         COALESCE(m.image_path,'') AS image_path, m.created_at,
	         u.name AS sender_name, COALESCE(u.avatar_path,'') AS sender_avatar
	  FROM messages m
	  JOIN users u ON u.id = m.sender_id
	  WHERE m.conversation_id = ?
	  ORDER BY datetime(m.created_at) ASC, m.rowid ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MessageView, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.MessageView{
			Message: r.Message,
			Sender:  domain.PublicProfile{ID: r.SenderID, Name: r.SenderName, AvatarPath: r.SenderAvatar},
		})
	}
	return out, nil
}

// OtherParticipant returns the participant of the conversation that is not
// the given user.
func (r *ConversationRepo) OtherParticipant(conversationID, userID string) (string, error) {
	var other string
	err := r.db.Get(&other, `
	  SELECT user_id FROM conversation_participants
	  WHERE conversation_id = ? AND user_id <> ?
	`, conversationID, userID)
	return other, err
}

type summaryRow struct {
	ID            string `db:"id"`
	ProductID     string `db:"product_id"`
	LastMessageAt string `db:"last_message_at"`
	CreatedAt     string `db:"created_at"`

	OtherID     string `db:"other_id"`
	OtherName   string `db:"other_name"`
	OtherAvatar string `db:"other_avatar"`

	LastMsgID      string `db:"last_msg_id"`
	LastMsgSender  string `db:"last_msg_sender"`
	LastMsgContent string `db:"last_msg_content"`
	LastMsgAt      string `db:"last_msg_at"`
}

// ListForUser returns every conversation the user participates in, newest
// activity first, with the other participant and the latest message resolved
// in a single query.
func (r *ConversationRepo) ListForUser(userID string) ([]domain.ConversationSummary, error) {
	rows := []summaryRow{}
	err := r.db.Select(&rows, `
	  SELECT c.id, COALESCE(c.product_id,'') AS product_id,
	         COALESCE(c.last_message_at,'') AS last_message_at, c.created_at,
	         u.id AS other_id, u.name AS other_name, COALESCE(u.avatar_path,'') AS other_avatar,
	         COALESCE(m.id,'') AS last_msg_id, COALESCE(m.sender_id,'') AS last_msg_sender,
	         COALESCE(m.content,'') AS last_msg_content, COALESCE(m.created_at,'') AS last_msg_at
	  FROM conversations c
	  JOIN conversation_participants cp ON cp.conversation_id = c.id AND cp.user_id = ?
	  JOIN conversation_participants cq ON cq.conversation_id = c.id AND cq.user_id <> ?
	  JOIN users u ON u.id = cq.user_id
	  LEFT JOIN messages m ON m.id = (
	    SELECT id FROM messages
	    WHERE conversation_id = c.id
	    ORDER BY datetime(created_at) DESC, rowid DESC LIMIT 1
	  )
	  WHERE cp.user_id = ?
	  ORDER BY datetime(c.last_message_at) DESC
	`, userID, userID, userID)
	if err != nil {
		return nil, err
	}

	prods := NewProductRepo(r.db)
	out := make([]domain.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		s := domain.ConversationSummary{
			Conversation: domain.Conversation{
				ID: row.ID, ProductID: row.ProductID,
				LastMessageAt: row.LastMessageAt, CreatedAt: row.CreatedAt,
			},
			Other: domain.PublicProfile{ID: row.OtherID, Name: row.OtherName, AvatarPath: row.OtherAvatar},
		}
		if row.LastMsgID != "" {
			s.LastMessage = &domain.Message{
				ID: row.LastMsgID, ConversationID: row.ID, SenderID: row.LastMsgSender,
				Content: row.LastMsgContent, CreatedAt: row.LastMsgAt,
			}
		}
		if row.ProductID != "" {
			if p, err := prods.Get(row.ProductID); err == nil {
				s.Product = &p
			}
		}
		out = append(out, s)
	}
	return out, nil
}

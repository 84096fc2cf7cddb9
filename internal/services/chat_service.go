package services

import (
	"errors"

	"givetzy/internal/domain"
	"givetzy/internal/repos"

	"github.com/google/uuid"
)

var ErrNotParticipant = errors.New("not a participant of this conversation")

type ChatService struct {
	Convs *repos.ConversationRepo
	Users *repos.UserRepo
}

func NewChatService(convs *repos.ConversationRepo, users *repos.UserRepo) *ChatService {
	return &ChatService{Convs: convs, Users: users}
}

func (s *ChatService) ListForUser(userID string) ([]domain.ConversationSummary, error) {
	return s.Convs.ListForUser(userID)
}

func (s *ChatService) Messages(conversationID, requesterID string) ([]domain.MessageView, error) {
	ok, err := s.Convs.IsParticipant(conversationID, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return s.Convs.Messages(conversationID)
}

// PostResult reports where a message landed, so the handler can notify the
// other participant.
type PostResult struct {
	Message        domain.Message
	ConversationID string
	RecipientID    string
	Created        bool // a new conversation was created for this message
}

// Post appends a message to an existing conversation.
func (s *ChatService) Post(conversationID, senderID, content, imagePath string) (PostResult, error) {
	cv, err := s.Convs.Get(conversationID)
	if err != nil {
		return PostResult{}, err // sql.ErrNoRows -> 404 at the handler
	}
	ok, err := s.Convs.IsParticipant(cv.ID, senderID)
	if err != nil {
		return PostResult{}, err
	}
	if !ok {
		return PostResult{}, ErrNotParticipant
	}

	tx, err := s.Convs.Beginx()
	if err != nil {
		return PostResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	m := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: cv.ID,
		SenderID:       senderID,
		Content:        content,
		ImagePath:      imagePath,
	}
	if err := s.Convs.InsertMessage(tx, &m); err != nil {
		return PostResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return PostResult{}, err
	}

	recipient, err := s.Convs.OtherParticipant(cv.ID, senderID)
	if err != nil {
		return PostResult{}, err
	}
	return PostResult{Message: m, ConversationID: cv.ID, RecipientID: recipient}, nil
}

// Start posts the first message between two users about a product. An
// existing conversation for the (pair, product) combination is reused;
// otherwise the conversation, both participant rows and the message commit
// together or not at all.
func (s *ChatService) Start(senderID, recipientID, productID, content, imagePath string) (PostResult, error) {
	if recipientID == senderID {
		return PostResult{}, domain.ErrSelfChat
	}
	if _, err := s.Users.ByID(recipientID); err != nil {
		return PostResult{}, err
	}

	convID, err := s.Convs.FindBetween(senderID, recipientID, productID)
	if err != nil {
		return PostResult{}, err
	}
	if convID != "" {
		res, err := s.Post(convID, senderID, content, imagePath)
		res.Created = false
		return res, err
	}

	tx, err := s.Convs.Beginx()
	if err != nil {
		return PostResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	convID = uuid.NewString()
	if err := s.Convs.CreateWithParticipants(tx, convID, productID, senderID, recipientID); err != nil {
		return PostResult{}, err
	}
	m := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		ImagePath:      imagePath,
	}
	if err := s.Convs.InsertMessage(tx, &m); err != nil {
		return PostResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return PostResult{}, err
	}
	return PostResult{Message: m, ConversationID: convID, RecipientID: recipientID, Created: true}, nil
}

package services

import (
	"fmt"
	"log"

	"leadhub/internal/models"
)

type UserDirectory interface {
	GetByID(id int) (*models.User, error)
}

// NotificationService — fan-out уведомлений о переходе: почта и telegram.
// Все ошибки только логируются: канал best-effort, переход он не блокирует
// и не валит.
type NotificationService struct {
	Email    EmailService
	Telegram *TelegramService
	Users    UserDirectory
	BaseURL  string
}

func NewNotificationService(email EmailService, telegram *TelegramService, users UserDirectory, baseURL string) *NotificationService {
	return &NotificationService{
		Email:    email,
		Telegram: telegram,
		Users:    users,
		BaseURL:  baseURL,
	}
}

func (n *NotificationService) leadURL(leadID int) string {
	return fmt.Sprintf("%s/leads/%d", n.BaseURL, leadID)
}

// NotifyStageAssignment шлёт письмо каждому адресату, у которого есть email,
// и telegram тем, у кого привязан чат. Вызывается из горутины.
func (n *NotificationService) NotifyStageAssignment(lead *models.Leads, stage models.Stage, assignedTo, notifyTo int) {
	assigned := n.lookup(assignedTo)
	notified := n.lookup(notifyTo)

	assignedName := ""
	if assigned != nil {
		assignedName = assigned.Name
	}
	notifiedName := ""
	if notified != nil {
		notifiedName = notified.Name
	}

	url := n.leadURL(lead.ID)
	for _, u := range []*models.User{assigned, notified} {
		if u == nil {
			continue
		}
		if u.Email != "" && n.Email != nil {
			if err := n.Email.SendStageAssignmentEmail(u.Email, lead.Title, url, assignedName, notifiedName); err != nil {
				log.Printf("[notify][email] lead=%d to=%s failed: %v", lead.ID, u.Email, err)
			}
		}
		if u.TelegramChatID != nil && u.NotifyTelegram {
			if err := n.Telegram.SendStageAlert(*u.TelegramChatID, lead.Title, stage.Name, url); err != nil {
				log.Printf("[notify][tg] lead=%d chat=%d failed: %v", lead.ID, *u.TelegramChatID, err)
			}
		}
	}
}

func (n *NotificationService) lookup(userID int) *models.User {
	if userID == 0 {
		return nil
	}
	u, err := n.Users.GetByID(userID)
	if err != nil {
		log.Printf("[notify][lookup] user=%d failed: %v", userID, err)
		return nil
	}
	return u
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
	"restaurantapp/backend/internal/scheduling"
)

// NotificationService 通知业务接口
type NotificationService interface {
	// NotifyReservationEvent 记录一次预订状态事件通知
	// 写入失败只记日志不上抛：通知绝不影响预订结果
	NotifyReservationEvent(ctx context.Context, reservation *model.Reservation, kind model.NotificationKind, reason string)
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// 各事件类型的通知标题
var notificationTitles = map[model.NotificationKind]string{
	model.NotificationPending:      "预订待确认",
	model.NotificationConfirmation: "预订确认",
	model.NotificationCancellation: "预订取消",
	model.NotificationReminder:     "用餐提醒",
	model.NotificationModification: "预订变更",
	model.NotificationWaitlist:     "候补通知",
}

func (s *notificationService) NotifyReservationEvent(ctx context.Context, reservation *model.Reservation, kind model.NotificationKind, reason string) {
	title := notificationTitles[kind]
	if title == "" {
		title = "预订通知"
	}

	content := fmt.Sprintf("您 %s %s-%s 的 %d 人预订当前状态为 %s",
		reservation.Date.Format(dateLayout),
		scheduling.FormatClock(reservation.StartMinute),
		scheduling.FormatClock(reservation.EndMinute),
		reservation.PartySize,
		reservation.Status,
	)

	notification := &model.Notification{
		UserID:        reservation.CustomerID,
		ReservationID: reservation.ReservationID,
		Kind:          kind,
		Title:         title,
		Content:       content,
		Reason:        reason,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("写入通知失败",
			zap.Error(err),
			zap.String("reservation_id", reservation.ReservationID),
			zap.String("kind", string(kind)),
		)
	}
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		if req.UnreadOnly && n.IsRead {
			continue
		}
		items = append(items, dto.NotificationResponse{
			ID:            n.NotificationID,
			ReservationID: n.ReservationID,
			Kind:          string(n.Kind),
			Title:         n.Title,
			Content:       n.Content,
			Reason:        n.Reason,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.NotificationListResponse{Total: total, Items: items}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.Notification.MarkRead(ctx, id, userID); err != nil {
		s.logger.Error("标记通知已读失败", zap.Error(err))
		return err
	}
	return nil
}

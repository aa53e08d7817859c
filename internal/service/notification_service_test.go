package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestNotificationService() (NotificationService, *testRepos) {
	repos := newTestRepos()
	svc := NewNotificationService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// NotifyReservationEvent 测试
// ════════════════════════════════════════════════════════════

func TestNotificationService_NotifyReservationEvent(t *testing.T) {
	svc, repos := setupTestNotificationService()

	reservation := &model.Reservation{
		ReservationID: "resv-1",
		CustomerID:    "cust-1",
		Date:          time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local),
		StartMinute:   1080,
		EndMinute:     1170,
		PartySize:     4,
		Status:        model.ReservationConfirmed,
	}
	svc.NotifyReservationEvent(context.Background(), reservation, model.NotificationConfirmation, "")

	notifs, total, err := repos.notification.ListByUser(context.Background(), "cust-1", 0, 10)
	if err != nil {
		t.Fatalf("ListByUser 应成功: %v", err)
	}
	if total != 1 {
		t.Fatalf("期望1条通知，实际=%d", total)
	}
	n := notifs[0]
	if n.Title != "预订确认" {
		t.Errorf("期望标题 预订确认，实际=%s", n.Title)
	}
	if !strings.Contains(n.Content, "2026-03-03") || !strings.Contains(n.Content, "18:00-19:30") {
		t.Errorf("通知正文应含日期与时段，实际=%s", n.Content)
	}
	if n.ReservationID != "resv-1" {
		t.Errorf("期望关联 resv-1，实际=%s", n.ReservationID)
	}
}

func TestNotificationService_NotifyReservationEvent_CancellationReason(t *testing.T) {
	svc, repos := setupTestNotificationService()

	reservation := &model.Reservation{
		ReservationID: "resv-1",
		CustomerID:    "cust-1",
		Date:          time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local),
		StartMinute:   1080,
		EndMinute:     1170,
		PartySize:     2,
		Status:        model.ReservationCancelled,
	}
	svc.NotifyReservationEvent(context.Background(), reservation, model.NotificationCancellation, "行程变更")

	notifs, _, _ := repos.notification.ListByUser(context.Background(), "cust-1", 0, 10)
	if len(notifs) != 1 {
		t.Fatalf("期望1条通知，实际=%d", len(notifs))
	}
	if notifs[0].Title != "预订取消" || notifs[0].Reason != "行程变更" {
		t.Errorf("取消通知不符，实际=%+v", notifs[0])
	}
}

// ════════════════════════════════════════════════════════════
// List / MarkRead 测试
// ════════════════════════════════════════════════════════════

func TestNotificationService_List_UnreadOnly(t *testing.T) {
	svc, repos := setupTestNotificationService()

	repos.notification.notifications["n-1"] = &model.Notification{
		NotificationID: "n-1", UserID: "cust-1", ReservationID: "resv-1",
		Kind: model.NotificationConfirmation, Title: "预订确认", Content: "内容", IsRead: true,
	}
	repos.notification.notifications["n-2"] = &model.Notification{
		NotificationID: "n-2", UserID: "cust-1", ReservationID: "resv-2",
		Kind: model.NotificationCancellation, Title: "预订取消", Content: "内容",
	}

	resp, err := svc.List(context.Background(), "cust-1", &dto.NotificationListRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "n-2" {
		t.Errorf("期望仅未读1条 n-2，实际=%+v", resp.Items)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, repos := setupTestNotificationService()

	repos.notification.notifications["n-1"] = &model.Notification{
		NotificationID: "n-1", UserID: "cust-1", ReservationID: "resv-1",
		Kind: model.NotificationConfirmation, Title: "预订确认", Content: "内容",
	}

	if err := svc.MarkRead(context.Background(), "n-1", "cust-1"); err != nil {
		t.Fatalf("MarkRead 应成功: %v", err)
	}
	if !repos.notification.notifications["n-1"].IsRead {
		t.Error("通知应被标记为已读")
	}

	// 不能标记他人的通知
	if err := svc.MarkRead(context.Background(), "n-1", "cust-2"); err == nil {
		t.Error("标记他人通知应失败")
	}
}

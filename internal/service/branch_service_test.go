package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestBranchService() (BranchService, *testRepos) {
	repos := newTestRepos()
	svc := NewBranchService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func seedRestaurantOnly(repos *testRepos) {
	repos.restaurant.restaurants["rest-1"] = &model.Restaurant{
		RestaurantID: "rest-1", Name: "云杉餐厅", IsActive: true,
		Policy: defaultPolicy(),
	}
}

// ════════════════════════════════════════════════════════════
// Create / Get / List 测试
// ════════════════════════════════════════════════════════════

func TestBranchService_Create(t *testing.T) {
	svc, repos := setupTestBranchService()
	seedRestaurantOnly(repos)

	resp, err := svc.Create(context.Background(), &dto.CreateBranchRequest{
		RestaurantID: "rest-1", Name: "湖畔店", Address: "滨湖路 8 号",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !resp.IsActive {
		t.Error("新建门店应为启用状态")
	}
	if resp.RestaurantID != "rest-1" {
		t.Errorf("期望归属 rest-1，实际=%s", resp.RestaurantID)
	}
}

func TestBranchService_Create_RestaurantNotFound(t *testing.T) {
	svc, _ := setupTestBranchService()

	_, err := svc.Create(context.Background(), &dto.CreateBranchRequest{
		RestaurantID: "nonexistent", Name: "湖畔店",
	}, "admin-1")
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("期望 ErrRestaurantNotFound，实际: %v", err)
	}
}

func TestBranchService_ListByRestaurant(t *testing.T) {
	svc, repos := setupTestBranchService()
	seedRestaurantOnly(repos)

	if _, err := svc.Create(context.Background(), &dto.CreateBranchRequest{RestaurantID: "rest-1", Name: "湖畔店"}, "admin-1"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	closed, err := svc.Create(context.Background(), &dto.CreateBranchRequest{RestaurantID: "rest-1", Name: "山景店"}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Update(context.Background(), closed.ID, &dto.UpdateBranchRequest{IsActive: boolPtr(false)}, "admin-1"); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	active, err := svc.ListByRestaurant(context.Background(), "rest-1", true)
	if err != nil {
		t.Fatalf("ListByRestaurant 应成功: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("期望1家启用门店，实际=%d", len(active))
	}

	all, err := svc.ListByRestaurant(context.Background(), "rest-1", false)
	if err != nil {
		t.Fatalf("ListByRestaurant 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望2家门店，实际=%d", len(all))
	}
}

// ════════════════════════════════════════════════════════════
// ReplaceHours 测试
// ════════════════════════════════════════════════════════════

func TestBranchService_ReplaceHours(t *testing.T) {
	svc, repos := setupTestBranchService()
	seedRestaurantOnly(repos)

	created, err := svc.Create(context.Background(), &dto.CreateBranchRequest{RestaurantID: "rest-1", Name: "湖畔店"}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	resp, err := svc.ReplaceHours(context.Background(), created.ID, &dto.ReplaceBranchHoursRequest{
		Hours: []dto.BranchHourItem{
			{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "22:00"},
			{DayOfWeek: 6, OpenTime: "11:30", CloseTime: "23:00"},
		},
	}, "admin-1")
	if err != nil {
		t.Fatalf("ReplaceHours 应成功: %v", err)
	}
	if len(resp.Hours) != 2 {
		t.Fatalf("期望2条营业时间，实际=%d", len(resp.Hours))
	}
	if resp.Hours[0].OpenTime != "10:00" || resp.Hours[0].CloseTime != "22:00" {
		t.Errorf("期望 10:00-22:00，实际 %s-%s", resp.Hours[0].OpenTime, resp.Hours[0].CloseTime)
	}

	// 整体替换：旧集合被新集合覆盖
	resp, err = svc.ReplaceHours(context.Background(), created.ID, &dto.ReplaceBranchHoursRequest{
		Hours: []dto.BranchHourItem{
			{DayOfWeek: 7, OpenTime: "09:00", CloseTime: "14:00"},
		},
	}, "admin-1")
	if err != nil {
		t.Fatalf("ReplaceHours 应成功: %v", err)
	}
	if len(resp.Hours) != 1 || resp.Hours[0].DayOfWeek != 7 {
		t.Errorf("期望仅剩周日1条，实际=%+v", resp.Hours)
	}
	if stored := repos.branch.hours[created.ID]; len(stored) != 1 {
		t.Errorf("仓储层应持久化替换结果，实际=%d条", len(stored))
	}
}

func TestBranchService_ReplaceHours_Invalid(t *testing.T) {
	svc, repos := setupTestBranchService()
	seedRestaurantOnly(repos)

	created, err := svc.Create(context.Background(), &dto.CreateBranchRequest{RestaurantID: "rest-1", Name: "湖畔店"}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 同一星期几重复
	_, err = svc.ReplaceHours(context.Background(), created.ID, &dto.ReplaceBranchHoursRequest{
		Hours: []dto.BranchHourItem{
			{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "14:00"},
			{DayOfWeek: 1, OpenTime: "17:00", CloseTime: "22:00"},
		},
	}, "admin-1")
	if !errors.Is(err, ErrBranchHoursDupes) {
		t.Errorf("期望 ErrBranchHoursDupes，实际: %v", err)
	}

	// 闭店不晚于开店
	_, err = svc.ReplaceHours(context.Background(), created.ID, &dto.ReplaceBranchHoursRequest{
		Hours: []dto.BranchHourItem{
			{DayOfWeek: 1, OpenTime: "22:00", CloseTime: "10:00"},
		},
	}, "admin-1")
	if !errors.Is(err, ErrBranchHoursBad) {
		t.Errorf("期望 ErrBranchHoursBad，实际: %v", err)
	}

	// 非法时间格式
	_, err = svc.ReplaceHours(context.Background(), created.ID, &dto.ReplaceBranchHoursRequest{
		Hours: []dto.BranchHourItem{
			{DayOfWeek: 1, OpenTime: "十点", CloseTime: "22:00"},
		},
	}, "admin-1")
	if !errors.Is(err, ErrBranchHoursBad) {
		t.Errorf("期望 ErrBranchHoursBad，实际: %v", err)
	}
}

func TestBranchService_Delete(t *testing.T) {
	svc, repos := setupTestBranchService()
	seedRestaurantOnly(repos)

	created, err := svc.Create(context.Background(), &dto.CreateBranchRequest{RestaurantID: "rest-1", Name: "湖畔店"}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "admin-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("删除后期望 ErrBranchNotFound，实际: %v", err)
	}
}

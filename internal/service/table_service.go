package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/model"
	"restaurantapp/backend/internal/repository"
)

// ── 桌位模块业务错误 ──

var (
	ErrTableNotFound  = errors.New("桌位不存在")
	ErrTableInvalid   = errors.New("桌位参数不合法")
	ErrTableBadBranch = errors.New("门店不属于该餐厅")
)

// TableService 桌位业务接口
type TableService interface {
	Create(ctx context.Context, req *dto.CreateTableRequest, callerID string) (*dto.TableResponse, error)
	Get(ctx context.Context, id string) (*dto.TableResponse, error)
	ListByBranch(ctx context.Context, branchID string) ([]dto.TableResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTableRequest, callerID string) (*dto.TableResponse, error)
	// SetAvailability 启停桌位：停用后不再参与选桌，历史预订保持可读
	SetAvailability(ctx context.Context, id string, req *dto.SetTableAvailabilityRequest, callerID string) (*dto.TableResponse, error)
}

type tableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTableService 创建 TableService 实例
func NewTableService(repo *repository.Repository, logger *zap.Logger) TableService {
	return &tableService{repo: repo, logger: logger}
}

func (s *tableService) Create(ctx context.Context, req *dto.CreateTableRequest, callerID string) (*dto.TableResponse, error) {
	branch, err := s.repo.Branch.GetByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("查询门店失败", zap.Error(err))
		return nil, err
	}
	if branch.RestaurantID != req.RestaurantID {
		return nil, ErrTableBadBranch
	}

	minParty := req.MinPartySize
	if minParty == 0 {
		minParty = 1
	}
	if minParty > req.MaxPartySize || !model.ValidTableType(model.TableType(req.TableType)) {
		return nil, ErrTableInvalid
	}

	table := &model.Table{
		RestaurantID: req.RestaurantID,
		BranchID:     req.BranchID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		MinPartySize: minParty,
		MaxPartySize: req.MaxPartySize,
		TableType:    model.TableType(req.TableType),
		IsAvailable:  true,
	}
	table.CreatedBy = &callerID
	table.UpdatedBy = &callerID

	if err := s.repo.Table.Create(ctx, table); err != nil {
		s.logger.Error("创建桌位失败", zap.Error(err))
		return nil, err
	}

	resp := toTableResponse(table)
	return &resp, nil
}

func (s *tableService) Get(ctx context.Context, id string) (*dto.TableResponse, error) {
	table, err := s.getTable(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTableResponse(table)
	return &resp, nil
}

func (s *tableService) ListByBranch(ctx context.Context, branchID string) ([]dto.TableResponse, error) {
	tables, err := s.repo.Table.ListByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("查询桌位列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		result = append(result, toTableResponse(&tables[i]))
	}
	return result, nil
}

func (s *tableService) Update(ctx context.Context, id string, req *dto.UpdateTableRequest, callerID string) (*dto.TableResponse, error) {
	table, err := s.getTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.MinPartySize != nil {
		table.MinPartySize = *req.MinPartySize
	}
	if req.MaxPartySize != nil {
		table.MaxPartySize = *req.MaxPartySize
	}
	if req.TableType != nil {
		if !model.ValidTableType(model.TableType(*req.TableType)) {
			return nil, ErrTableInvalid
		}
		table.TableType = model.TableType(*req.TableType)
	}
	if table.MinPartySize > table.MaxPartySize {
		return nil, ErrTableInvalid
	}
	table.UpdatedBy = &callerID

	if err := s.repo.Table.Update(ctx, table); err != nil {
		s.logger.Error("更新桌位失败", zap.Error(err))
		return nil, err
	}

	resp := toTableResponse(table)
	return &resp, nil
}

func (s *tableService) SetAvailability(ctx context.Context, id string, req *dto.SetTableAvailabilityRequest, callerID string) (*dto.TableResponse, error) {
	table, err := s.getTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Table.SetAvailability(ctx, id, req.IsAvailable, callerID); err != nil {
		s.logger.Error("切换桌位状态失败", zap.Error(err))
		return nil, err
	}

	table.IsAvailable = req.IsAvailable
	resp := toTableResponse(table)
	return &resp, nil
}

// ── 内部辅助方法 ──

func (s *tableService) getTable(ctx context.Context, id string) (*model.Table, error) {
	table, err := s.repo.Table.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		s.logger.Error("查询桌位失败", zap.Error(err))
		return nil, err
	}
	return table, nil
}

func toTableResponse(t *model.Table) dto.TableResponse {
	return dto.TableResponse{
		ID:           t.TableID,
		RestaurantID: t.RestaurantID,
		BranchID:     t.BranchID,
		TableNumber:  t.TableNumber,
		Capacity:     t.Capacity,
		MinPartySize: t.MinPartySize,
		MaxPartySize: t.MaxPartySize,
		TableType:    string(t.TableType),
		IsAvailable:  t.IsAvailable,
		CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

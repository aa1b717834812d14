package transfer

import (
	"context"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/activity"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

type publisher interface {
	Publish(activities ...model.Activity)
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(s store.Store, feed publisher) *service {
	return &service{store: s, feed: feed}
}

type service struct {
	store store.Store
	feed  publisher
}

// Create requests a transfer of points between two members. Points only move once the transfer is
// approved.
func (s service) Create(ctx context.Context, fromMemberID, toMemberID string, points int) (*model.PointTransfer, error) {
	if points <= 0 {
		return nil, errdef.NewBadRequest("points must be positive, got %d", points)
	}
	if fromMemberID == toMemberID {
		return nil, errdef.NewBadRequest("a member can't transfer points to itself")
	}

	var recorded model.Activity
	transfer, err := store.Query(ctx, s.store, func(tx store.Tx) (*model.PointTransfer, error) {
		from, err := tx.FindMember(ctx, fromMemberID)
		if err != nil {
			return nil, err
		}
		to, err := tx.FindMember(ctx, toMemberID)
		if err != nil {
			return nil, err
		}

		transfer := &model.PointTransfer{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Points:       points,
			Status:       model.TransferPending,
		}
		if err := tx.CreatePointTransfer(ctx, transfer); err != nil {
			return nil, err
		}

		recorded, err = activity.Record(ctx, tx, model.ActivityTransferRequested, &from.DiscordID, "%s solicitou a transferência de %d pontos para %s", from.Name, points, to.Name)
		if err != nil {
			return nil, err
		}
		return transfer, nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(recorded)
	return transfer, nil
}

// Approve moves the points of a pending transfer. The sender must still hold enough points.
func (s service) Approve(ctx context.Context, id, approvedBy string) (*model.PointTransfer, error) {
	var recorded model.Activity
	transfer, err := store.Query(ctx, s.store, func(tx store.Tx) (*model.PointTransfer, error) {
		transfer, err := tx.FindPointTransfer(ctx, id)
		if err != nil {
			return nil, err
		}
		if transfer.Status != model.TransferPending {
			return nil, errdef.NewInvalidTransition("point transfer %q is %s", id, transfer.Status)
		}

		from, err := tx.FindMember(ctx, transfer.FromMemberID)
		if err != nil {
			return nil, err
		}
		to, err := tx.FindMember(ctx, transfer.ToMemberID)
		if err != nil {
			return nil, err
		}
		if from.EventPoints < transfer.Points {
			return nil, errdef.NewBadRequest("%s holds %d points, %d are needed", from.Name, from.EventPoints, transfer.Points)
		}

		from.EventPoints -= transfer.Points
		to.EventPoints += transfer.Points
		if err := tx.SaveMember(ctx, from); err != nil {
			return nil, err
		}
		if err := tx.SaveMember(ctx, to); err != nil {
			return nil, err
		}

		transfer.Status = model.TransferApproved
		transfer.ApprovedBy = &approvedBy
		if err := tx.SavePointTransfer(ctx, transfer); err != nil {
			return nil, err
		}

		recorded, err = activity.Record(ctx, tx, model.ActivityTransferApproved, &approvedBy, "%d pontos transferidos de %s para %s", transfer.Points, from.Name, to.Name)
		if err != nil {
			return nil, err
		}
		return transfer, nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(recorded)
	return transfer, nil
}

// FindAll returns every transfer, newest first.
func (s service) FindAll(ctx context.Context) ([]model.PointTransfer, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.PointTransfer, error) {
		return tx.FindAllPointTransfers(ctx)
	})
}

package webhooks

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/mateoavila/nft-transfers/api/responses"
	"github.com/mateoavila/nft-transfers/api/validators"
	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/config"
	"github.com/mateoavila/nft-transfers/pkg/enums"
	pkgerrors "github.com/mateoavila/nft-transfers/pkg/errors"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

const goldskyAuthHeader = "gs-webhook-auth"

// goldskyEnvelope is the row-level change event the indexer posts. An
// INSERT is a forward transfer carried in data.new; anything else is a
// reorg rollback carried in data.old.
type goldskyEnvelope struct {
	Event struct {
		Op   string `json:"op" validate:"required"`
		Data struct {
			New *goldskyRow `json:"new"`
			Old *goldskyRow `json:"old"`
		} `json:"data"`
	} `json:"event"`
}

type goldskyRow struct {
	ID          string `json:"id" validate:"required"`
	From        string `json:"from"`
	To          string `json:"to" validate:"required"`
	Contract    string `json:"contract" validate:"required"`
	TokenID     string `json:"token_id" validate:"required"`
	BlockNumber int64  `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`
}

// GoldskyWebhook authenticates and decodes indexer change events, then
// enqueues the resulting transfer. The publish must succeed before the 200
// is written; the indexer retries on any other status.
func GoldskyWebhook(cfg config.WebhookConfig, publisher transfers.Publisher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if publisher == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfer publisher unavailable"))
			return
		}

		authHeader := r.Header.Get(goldskyAuthHeader)
		if subtle.ConstantTimeCompare([]byte(authHeader), []byte(cfg.AuthSecret)) != 1 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook auth header"))
			return
		}

		var envelope goldskyEnvelope
		if err := validators.DecodeJSONBody(r, &envelope); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		transfer, err := transferFromEnvelope(envelope, cfg.ChainID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}

		if err := publisher.PublishTransfer(ctx, transfer); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueue transfer"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(ctx, transfer.LogFields()), "transfer accepted")
		}
		responses.WriteSuccess(w, nil)
	}
}

func transferFromEnvelope(envelope goldskyEnvelope, chainID string) (transfers.Transfer, error) {
	kind := enums.TransferKindApply
	row := envelope.Event.Data.New
	if envelope.Event.Op != "INSERT" {
		kind = enums.TransferKindRevert
		row = envelope.Event.Data.Old
	}
	if row == nil {
		return transfers.Transfer{}, fmt.Errorf("missing row for op %q", envelope.Event.Op)
	}

	transfer := transfers.Transfer{
		TxHash:         row.ID,
		ChainID:        chainID,
		CollectionAddr: transfers.TrimLowerAddress(row.Contract),
		TokenID:        row.TokenID,
		From:           transfers.TrimLowerAddress(row.From),
		To:             transfers.TrimLowerAddress(row.To),
		BlockNumber:    row.BlockNumber,
		TimestampMs:    row.Timestamp * 1000,
		Kind:           kind,
	}
	if err := transfer.Validate(); err != nil {
		return transfers.Transfer{}, err
	}
	return transfer, nil
}

// Package messaging dispatches tagged requests from UI surfaces to the
// orchestrator and use cases, mirroring the message protocol of the
// configuration popup and site-management pages.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tabzoom/zoomd/internal/app/control"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/logging"
)

// Message types understood by the handler.
const (
	TypeSettingsChanged        = "SETTINGS_CHANGED"
	TypeApplyZoomToAllTabs     = "APPLY_ZOOM_TO_ALL_TABS"
	TypeToggleZoom             = "TOGGLE_ZOOM"
	TypeAddExclusion           = "ADD_EXCLUSION"
	TypeRemoveExclusion        = "REMOVE_EXCLUSION"
	TypeCheckExclusion         = "CHECK_EXCLUSION"
	TypeExportSettings         = "EXPORT_SETTINGS"
	TypeImportSettings         = "IMPORT_SETTINGS"
	TypeCheckHasCustomSettings = "CHECK_HAS_CUSTOM_SETTINGS"
)

// Message is a tagged request from a UI surface.
type Message struct {
	Type      string                    `json:"type"`
	ZoomLevel int                       `json:"zoomLevel,omitempty"`
	Hostname  string                    `json:"hostname,omitempty"`
	Value     string                    `json:"value,omitempty"`
	IsPattern bool                      `json:"isPattern,omitempty"`
	Settings  *usecase.SettingsSnapshot `json:"settings,omitempty"`
	MergeMode string                    `json:"mergeMode,omitempty"`
}

// Reply is the generic response envelope. Type-specific payload fields are
// flattened alongside it by the concrete reply structs below.
type Reply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type exclusionReply struct {
	Reply
	ExcludedSites any `json:"excludedSites,omitempty"`
}

type exportReply struct {
	Reply
	Data *usecase.ExportEnvelope `json:"data,omitempty"`
}

type checkExclusionReply struct {
	usecase.ExclusionStatus
}

type summaryReply struct {
	usecase.StateSummary
}

// Handler routes messages to the engine.
type Handler struct {
	orchestrator *control.Orchestrator
	exclusions   *usecase.ManageExclusionsUseCase
	transfer     *usecase.TransferSettingsUseCase
}

// NewHandler creates a new message handler.
func NewHandler(
	orchestrator *control.Orchestrator,
	exclusions *usecase.ManageExclusionsUseCase,
	transfer *usecase.TransferSettingsUseCase,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		exclusions:   exclusions,
		transfer:     transfer,
	}
}

// Handle processes one raw message and returns the JSON reply. Failures are
// reported in the reply envelope; the error return is reserved for
// malformed requests.
func (h *Handler) Handle(ctx context.Context, raw []byte) ([]byte, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	return h.dispatch(ctx, msg)
}

func (h *Handler) dispatch(ctx context.Context, msg Message) ([]byte, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("type", msg.Type).Msg("handling message")

	switch msg.Type {
	case TypeSettingsChanged:
		return h.reply(h.orchestrator.SettingsChanged(ctx))

	case TypeApplyZoomToAllTabs:
		return h.reply(h.orchestrator.ApplyZoomToAllTabs(ctx, msg.ZoomLevel))

	case TypeToggleZoom:
		_, err := h.orchestrator.ToggleZoom(ctx)
		return h.reply(err)

	case TypeAddExclusion:
		set, err := h.exclusions.Add(ctx, msg.Hostname, msg.IsPattern)
		if err != nil {
			return h.replyError(err)
		}
		return json.Marshal(exclusionReply{Reply: Reply{Success: true}, ExcludedSites: set})

	case TypeRemoveExclusion:
		set, err := h.exclusions.Remove(ctx, msg.Value, msg.IsPattern)
		if err != nil {
			return h.replyError(err)
		}
		return json.Marshal(exclusionReply{Reply: Reply{Success: true}, ExcludedSites: set})

	case TypeCheckExclusion:
		status, err := h.exclusions.Check(ctx, msg.Hostname)
		if err != nil {
			return h.replyError(err)
		}
		return json.Marshal(checkExclusionReply{ExclusionStatus: status})

	case TypeExportSettings:
		envelope, err := h.transfer.Export(ctx)
		if err != nil {
			return h.replyError(err)
		}
		return json.Marshal(exportReply{Reply: Reply{Success: true}, Data: &envelope})

	case TypeImportSettings:
		mode := usecase.MergeMode(msg.MergeMode)
		if mode == "" {
			mode = usecase.MergeReplace
		}
		return h.reply(h.transfer.Import(ctx, msg.Settings, mode))

	case TypeCheckHasCustomSettings:
		summary, err := h.transfer.Summary(ctx)
		if err != nil {
			return h.replyError(err)
		}
		return json.Marshal(summaryReply{StateSummary: summary})

	default:
		return h.replyError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (h *Handler) reply(err error) ([]byte, error) {
	if err != nil {
		return h.replyError(err)
	}
	return json.Marshal(Reply{Success: true})
}

func (h *Handler) replyError(err error) ([]byte, error) {
	return json.Marshal(Reply{Success: false, Error: err.Error()})
}

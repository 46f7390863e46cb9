package api

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"workload-board/board"
	"workload-board/domain"
)

const maxBodySize = 64 << 10

// badRequest is returned by request parsing and mapped to 400.
type badRequest string

func (e badRequest) Error() string { return string(e) }

type opFunc func(ctx context.Context, c echo.Context, m *opMetrics) (board.State, error)

// Register wires up all API routes on the provided Echo instance. dedup may
// be nil, in which case gesture ids are ignored.
func Register(e *echo.Echo, b Board, dedup Deduper, logger *log.Logger) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	e.JSONSerializer = sonicSerializer{}

	route := func(method, path, op string, fn opFunc) {
		e.Add(method, path, handle(logger, op, path, fn))
	}
	route(http.MethodGet, "/api/board", "get_board", getBoard(b))
	route(http.MethodPost, "/api/people", "add_person", addPerson(b))
	route(http.MethodPost, "/api/people/move", "move_person", movePerson(b))
	route(http.MethodPatch, "/api/people/:id", "rename_person", renamePerson(b))
	route(http.MethodPut, "/api/people/:id/level", "change_level", changeLevel(b))
	route(http.MethodDelete, "/api/people/:id", "delete_person", deletePerson(b))
	route(http.MethodPost, "/api/people/:id/tasks", "add_task", addTask(b))
	route(http.MethodPost, "/api/people/:id/tasks/reorder", "reorder_tasks", reorderTasks(b, dedup, logger))
	route(http.MethodPut, "/api/people/:id/tasks/:taskId", "update_task", updateTask(b))
	route(http.MethodDelete, "/api/people/:id/tasks/:taskId", "delete_task", deleteTask(b))
	route(http.MethodPut, "/api/selection", "select", putSelection(b))
	route(http.MethodDelete, "/api/selection", "clear_selection", clearSelection(b))
	route(http.MethodPost, "/api/reset", "reset", reset(b))
	e.GET("/api/weights", getWeights(b))
	e.PUT("/api/weights", handle(logger, "save_weights", "/api/weights", putWeights(b)))
	e.GET("/healthz", healthz)
}

func healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// handle runs one board operation and answers with the resulting state.
func handle(logger *log.Logger, op, route string, fn opFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics, ctx := newOpMetrics(c.Request().Context(), logger, op, route)
		c.SetRequest(c.Request().WithContext(ctx))

		var failure error
		defer func() {
			metrics.Log(c.Response().Status, failure)
		}()

		applyStart := time.Now()
		st, err := fn(ctx, c, metrics)
		metrics.ObserveApply(time.Since(applyStart))
		if err != nil {
			failure = err
			var br badRequest
			switch {
			case errors.As(err, &br):
				metrics.SetErrorStage("request")
				return c.String(http.StatusBadRequest, br.Error())
			case errors.Is(err, domain.ErrIncompleteWeights):
				metrics.SetErrorStage("validate")
				return c.String(http.StatusUnprocessableEntity, err.Error())
			default:
				metrics.SetErrorStage("persist")
				logger.WithError(err).WithField("op", op).Error("board operation failed")
				return c.String(http.StatusServiceUnavailable, "failed to persist board")
			}
		}
		metrics.SetResult(st.Version, len(st.People))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, st)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			failure = err
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, maxBodySize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid body")
	}
	return nil
}

type personRequest struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type levelRequest struct {
	Level int `json:"level"`
}

type moveRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
}

type taskRequest struct {
	Title      string `json:"title"`
	Estimation string `json:"estimation"`
	Color      string `json:"color"`
}

type reorderRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	GestureID string `json:"gestureId,omitempty"`
}

type selectionRequest struct {
	PersonID        string `json:"personId"`
	TaskID          string `json:"taskId"`
	EditingPersonID string `json:"editingPersonId"`
}

// weightRow is one editor row. Cells may be numbers or strings.
type weightRow struct {
	Type    string         `json:"type"`
	Weights map[string]any `json:"weights"`
}

func getBoard(b Board) opFunc {
	return func(_ context.Context, _ echo.Context, _ *opMetrics) (board.State, error) {
		return b.State(), nil
	}
}

func addPerson(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		req := personRequest{Level: int(domain.DefaultLevel)}
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		return b.AddPerson(ctx, req.Name, domain.Level(req.Level))
	}
}

func renamePerson(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		var req personRequest
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		return b.RenamePerson(ctx, c.Param("id"), req.Name)
	}
}

func changeLevel(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		var req levelRequest
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		return b.ChangeLevel(ctx, c.Param("id"), domain.Level(req.Level))
	}
}

func deletePerson(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		return b.DeletePerson(ctx, c.Param("id"))
	}
}

func movePerson(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		var req moveRequest
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		dir, err := domain.ParseDirection(req.Direction)
		if err != nil {
			return board.State{}, badRequest(err.Error())
		}
		return b.MovePerson(ctx, req.Index, dir)
	}
}

func parseTask(c echo.Context) (taskRequest, domain.EstimationSize, error) {
	var req taskRequest
	if err := decodeBody(c, &req); err != nil {
		return req, "", err
	}
	if req.Estimation == "" {
		return req, domain.DefaultEstimation, nil
	}
	size, err := domain.ParseEstimation(req.Estimation)
	if err != nil {
		return req, "", badRequest(err.Error())
	}
	return req, size, nil
}

func addTask(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		req, size, err := parseTask(c)
		if err != nil {
			return board.State{}, err
		}
		return b.AddTask(ctx, c.Param("id"), req.Title, size, req.Color)
	}
}

func updateTask(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		req, size, err := parseTask(c)
		if err != nil {
			return board.State{}, err
		}
		return b.UpdateTask(ctx, c.Param("id"), c.Param("taskId"), req.Title, size, req.Color)
	}
}

func deleteTask(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		return b.DeleteTask(ctx, c.Param("id"), c.Param("taskId"))
	}
}

// reorderTasks applies a drag gesture at most once per gesture id.
func reorderTasks(b Board, dedup Deduper, logger *log.Logger) opFunc {
	return func(ctx context.Context, c echo.Context, m *opMetrics) (board.State, error) {
		var req reorderRequest
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		personID := c.Param("id")
		tracked := false
		if req.GestureID != "" && dedup != nil {
			added, err := dedup.Add(ctx, personID, req.GestureID)
			switch {
			case err != nil:
				logger.WithError(err).Warn("gesture deduper unavailable")
			case !added:
				m.SetDuplicate(true)
				return b.State(), nil
			default:
				tracked = true
			}
		}
		st, err := b.ReorderTasks(ctx, personID, req.From, req.To)
		// A persistence failure still moved the task in memory, so the
		// gesture id stays recorded and a retry is dropped.
		if err != nil && tracked && !errors.Is(err, board.ErrPersist) {
			if rerr := dedup.Remove(context.WithoutCancel(ctx), personID, req.GestureID); rerr != nil {
				logger.WithError(rerr).Warn("failed to release gesture id")
			}
		}
		return st, err
	}
}

func putSelection(b Board) opFunc {
	return func(_ context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		var req selectionRequest
		if err := decodeBody(c, &req); err != nil {
			return board.State{}, err
		}
		st := b.ClearSelection()
		switch {
		case req.TaskID != "":
			st = b.BeginTaskEdit(req.PersonID, req.TaskID)
		case req.PersonID != "":
			st = b.SelectPerson(req.PersonID)
		}
		if req.EditingPersonID != "" {
			st = b.BeginRename(req.EditingPersonID)
		}
		return st, nil
	}
}

func clearSelection(b Board) opFunc {
	return func(context.Context, echo.Context, *opMetrics) (board.State, error) {
		return b.ClearSelection(), nil
	}
}

func reset(b Board) opFunc {
	return func(ctx context.Context, _ echo.Context, _ *opMetrics) (board.State, error) {
		return b.ResetToDefaults(ctx)
	}
}

func getWeights(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, b.State().Weights)
	}
}

func putWeights(b Board) opFunc {
	return func(ctx context.Context, c echo.Context, _ *opMetrics) (board.State, error) {
		var rows []weightRow
		if err := decodeBody(c, &rows); err != nil {
			return board.State{}, err
		}
		table, err := weightTableFromRows(rows)
		if err != nil {
			return board.State{}, err
		}
		return b.SaveWeights(ctx, table)
	}
}

func weightTableFromRows(rows []weightRow) (domain.WeightTable, error) {
	table := make(domain.WeightTable, 0, len(rows))
	for _, row := range rows {
		size, err := domain.ParseEstimation(row.Type)
		if err != nil {
			return nil, badRequest(err.Error())
		}
		weights := make(map[domain.Level]float64, len(row.Weights))
		for k, cell := range row.Weights {
			lvl, err := strconv.Atoi(k)
			if err != nil {
				return nil, badRequest("invalid level " + strconv.Quote(k))
			}
			weights[domain.Level(lvl)] = cellValue(cell)
		}
		table = append(table, domain.EstimationWeight{Type: size, Weights: weights})
	}
	return table, nil
}

// cellValue coerces an editor cell to a weight; unparsable input becomes 0.
func cellValue(v any) float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return 0
		}
		return x
	case string:
		return domain.ParseWeight(x)
	default:
		return 0
	}
}

package session

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/gridrunner-client/internal/entity"
	"github.com/rocketscienceinc/gridrunner-client/internal/protocol"
)

// RenderSink receives full-view render requests. It is expected to consume
// the state's pending message on every display.
type RenderSink interface {
	Render(state *entity.ClientState)
}

type eventKey struct {
	mainType uint16
	subType  uint16
}

// Session drives one client connection: it owns the ClientState and turns
// decoded frames into state transitions.
type Session struct {
	logger *slog.Logger
	conn   io.ReadWriter
	sink   RenderSink
	state  *entity.ClientState
	tick   time.Duration

	handlers map[eventKey]func(payload json.RawMessage) error
}

func New(logger *slog.Logger, conn io.ReadWriter, sink RenderSink, playerName string, tick time.Duration) *Session {
	session := &Session{
		logger: logger.With("component", "session"),
		conn:   conn,
		sink:   sink,
		state:  entity.NewClientState(playerName),
		tick:   tick,

		handlers: make(map[eventKey]func(json.RawMessage) error),
	}

	session.handlers[eventKey{protocol.MainNetwork, protocol.SubJoin}] = session.handleJoinAck
	session.handlers[eventKey{protocol.MainNetwork, protocol.SubLeft}] = session.handleLeft
	session.handlers[eventKey{protocol.MainNetwork, protocol.SubClose}] = session.handleClose
	session.handlers[eventKey{protocol.MainGame, protocol.SubRoomCreate}] = session.handleRoomCreate
	session.handlers[eventKey{protocol.MainGame, protocol.SubGameCountdown}] = session.handleCountdown
	session.handlers[eventKey{protocol.MainGame, protocol.SubGameStart}] = session.handleGameStart
	session.handlers[eventKey{protocol.MainGame, protocol.SubPlayerMoved}] = session.handlePlayerMoved
	session.handlers[eventKey{protocol.MainGame, protocol.SubPlayerComeInMap}] = session.handleComeInMap
	session.handlers[eventKey{protocol.MainGame, protocol.SubPlayerComeOutMap}] = session.handleComeOutMap
	session.handlers[eventKey{protocol.MainGame, protocol.SubPlayerFinished}] = session.handlePlayerFinished
	session.handlers[eventKey{protocol.MainGame, protocol.SubGameEnd}] = session.handleGameEnd

	return session
}

// State - exposes the session state to the renderer and to tests.
func (that *Session) State() *entity.ClientState {
	return that.state
}

// Apply - dispatches one decoded frame. Anomalies never escape: unknown
// events, out-of-phase events and handler failures all degrade to a pending
// status message.
func (that *Session) Apply(frame *protocol.Frame) {
	log := that.logger.With("method", "Apply")

	if frame.MainType == protocol.MainError {
		that.handleServerError(frame.Payload)
		return
	}

	handler, ok := that.handlers[eventKey{frame.MainType, frame.SubType}]
	if !ok {
		log.Warn("unknown event", "main_type", frame.MainType, "sub_type", frame.SubType)
		that.state.SetMessage("unknown event: main=%d sub=%d", frame.MainType, frame.SubType)
		return
	}

	if err := handler(frame.Payload); err != nil {
		log.Error("failed to handle event", "main_type", frame.MainType, "sub_type", frame.SubType, "error", err)
		that.state.SetMessage("failed to handle event: %v", err)
	}
}

func (that *Session) handleJoinAck(payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinAck")

	var ack protocol.JoinAckPayload
	if err := json.Unmarshal(payload, &ack); err != nil {
		return fmt.Errorf("failed to unmarshal join ack: %w", err)
	}

	if that.state.Phase != entity.PhaseAwaitingJoinAck {
		that.state.SetMessage("unexpected join ack in phase %s", that.state.Phase)
		return nil
	}

	if !bool(ack.Result) {
		log.Warn("join rejected", "msg", ack.Message)
		that.state.SetMessage("join failed: %s", ack.Message)
		return nil
	}

	that.state.SetSelfID(ack.PlayerID)
	that.state.Phase = entity.PhaseWaiting
	that.state.SetMessage("joined as %s, waiting for a room", ack.PlayerID)

	log.Info("joined", "player_id", ack.PlayerID)

	return nil
}

func (that *Session) handleLeft(payload json.RawMessage) error {
	var ack protocol.LeftAckPayload
	if err := json.Unmarshal(payload, &ack); err != nil {
		return fmt.Errorf("failed to unmarshal left ack: %w", err)
	}

	that.state.Phase = entity.PhaseClosed
	that.state.SetMessage("left the game")

	return nil
}

func (that *Session) handleClose(payload json.RawMessage) error {
	that.state.Phase = entity.PhaseClosed
	that.state.SetMessage("connection closed by server")

	return nil
}

func (that *Session) handleRoomCreate(payload json.RawMessage) error {
	log := that.logger.With("method", "handleRoomCreate")

	var room protocol.RoomCreatePayload
	if err := json.Unmarshal(payload, &room); err != nil {
		return fmt.Errorf("failed to unmarshal room create: %w", err)
	}

	if that.state.Phase != entity.PhaseWaiting {
		that.state.SetMessage("unexpected room_create in phase %s", that.state.Phase)
		return nil
	}

	if len(room.Maps) == 0 {
		that.state.SetMessage("room %s has no maps", room.RoomID)
		return nil
	}

	for _, wireMap := range room.Maps {
		that.state.RegisterMap(mapInfoFromWire(wireMap))
	}

	that.state.RoomID = string(room.RoomID)
	that.state.Roster.Replace(rosterFromWire(room.Players))

	first := room.Maps[0]
	if err := that.state.EnterMap(first.Name, entity.Point{X: first.Start.X, Y: first.Start.Y}); err != nil {
		return fmt.Errorf("failed to enter starting map: %w", err)
	}

	that.state.SetMessage("room %s created on map %s", room.RoomID, first.Name)

	log.Info("room created", "room_id", room.RoomID, "maps", len(room.Maps), "players", that.state.Roster.Len())

	return nil
}

func (that *Session) handleCountdown(payload json.RawMessage) error {
	var countdown protocol.CountdownPayload
	if err := json.Unmarshal(payload, &countdown); err != nil {
		return fmt.Errorf("failed to unmarshal countdown: %w", err)
	}

	that.state.SetMessage("game starts in %s...", countdown.Count)

	return nil
}

func (that *Session) handleGameStart(payload json.RawMessage) error {
	log := that.logger.With("method", "handleGameStart")

	if that.state.Phase != entity.PhaseWaiting {
		that.state.SetMessage("unexpected game_start in phase %s", that.state.Phase)
		return nil
	}

	that.state.Phase = entity.PhasePlaying
	that.state.SetMessage("game started! move with w/a/s/d, quit with q")
	that.requestRender()

	log.Info("game started", "room_id", that.state.RoomID)

	return nil
}

func (that *Session) handlePlayerMoved(payload json.RawMessage) error {
	log := that.logger.With("method", "handlePlayerMoved")

	var moved protocol.MovedPayload
	if err := json.Unmarshal(payload, &moved); err != nil {
		return fmt.Errorf("failed to unmarshal player moved: %w", err)
	}

	if !that.state.IsPlaying() {
		that.state.SetMessage("unexpected player_moved in phase %s", that.state.Phase)
		return nil
	}

	// Movement on a map we already left can still be in flight; stale-map
	// events are dropped rather than applied to the wrong grid.
	if moved.Map != "" && moved.Map != that.state.CurrentMap {
		log.Debug("discarding stale-map movement", "map", moved.Map, "current", that.state.CurrentMap)
		return nil
	}

	position := entity.Point{X: moved.X, Y: moved.Y}

	if moved.PlayerID == that.state.SelfID {
		if err := that.state.MoveSelf(position); err != nil {
			return fmt.Errorf("failed to apply own movement: %w", err)
		}
		that.state.SetMessage("moved to (%d,%d)", position.X, position.Y)
		that.requestRender()
		return nil
	}

	// A move for an id we never saw enter the map fabricates a roster entry.
	// Most likely a server-side ordering race (move delivered before
	// come_in_map), tolerated rather than fixed here.
	that.state.Roster.Upsert(moved.PlayerID, moved.PlayerName, position)
	that.requestRender()

	return nil
}

func (that *Session) handleComeInMap(payload json.RawMessage) error {
	log := that.logger.With("method", "handleComeInMap")

	var change protocol.MapChangePayload
	if err := json.Unmarshal(payload, &change); err != nil {
		return fmt.Errorf("failed to unmarshal come_in_map: %w", err)
	}

	if !that.state.IsPlaying() {
		that.state.SetMessage("unexpected player_come_in_map in phase %s", that.state.Phase)
		return nil
	}

	position := entity.Point{X: change.X, Y: change.Y}

	if change.PlayerID == that.state.SelfID {
		if err := that.state.EnterMap(change.Map, position); err != nil {
			return fmt.Errorf("failed to enter map %s: %w", change.Map, err)
		}

		that.state.Roster.Replace(rosterFromWire(change.Players))
		that.state.SetMessage("entered map %s", change.Map)
		that.requestRender()

		log.Info("entered map", "map", change.Map)

		return nil
	}

	that.state.Roster.Upsert(change.PlayerID, "", position)
	that.state.SetMessage("player %s entered the map", change.PlayerID)

	return nil
}

func (that *Session) handleComeOutMap(payload json.RawMessage) error {
	var change protocol.MapChangePayload
	if err := json.Unmarshal(payload, &change); err != nil {
		return fmt.Errorf("failed to unmarshal come_out_map: %w", err)
	}

	if !that.state.IsPlaying() {
		that.state.SetMessage("unexpected player_come_out_map in phase %s", that.state.Phase)
		return nil
	}

	that.state.Roster.Remove(change.PlayerID)
	that.state.SetMessage("player %s left the map", change.PlayerID)

	return nil
}

func (that *Session) handlePlayerFinished(payload json.RawMessage) error {
	log := that.logger.With("method", "handlePlayerFinished")

	var finished protocol.FinishedPayload
	if err := json.Unmarshal(payload, &finished); err != nil {
		return fmt.Errorf("failed to unmarshal player finished: %w", err)
	}

	// Finished stays allowed so late leaderboard snapshots can land.
	if !that.state.IsPlaying() && !that.state.IsFinished() {
		that.state.SetMessage("unexpected player_finished in phase %s", that.state.Phase)
		return nil
	}

	if finished.PlayerID == that.state.SelfID {
		that.state.Phase = entity.PhaseFinished
		that.state.Leaderboard = leaderboardFromWire(finished.Results)
		that.state.SetMessage("you finished! total distance: %d", finished.TotalDist)
		that.requestRender()

		log.Info("finished", "total_dist", finished.TotalDist)

		return nil
	}

	if that.state.IsFinished() && len(finished.Results) > 0 {
		// Late leaderboard snapshot; the server order stays authoritative.
		that.state.Leaderboard = leaderboardFromWire(finished.Results)
		that.requestRender()
		return nil
	}

	that.state.Roster.Remove(finished.PlayerID)
	that.state.SetMessage("player %s finished (total distance: %d)", finished.PlayerID, finished.TotalDist)

	return nil
}

func (that *Session) handleGameEnd(payload json.RawMessage) error {
	that.state.SetMessage("the game has ended")

	return nil
}

func (that *Session) handleServerError(payload json.RawMessage) {
	log := that.logger.With("method", "handleServerError")

	var serverErr protocol.ErrorPayload
	if err := json.Unmarshal(payload, &serverErr); err != nil || serverErr.Error == "" {
		that.state.SetMessage("server error: %s", string(payload))
		return
	}

	log.Warn("server reported error", "error", serverErr.Error)
	that.state.SetMessage("server error: %s", serverErr.Error)
}

func (that *Session) requestRender() {
	if that.sink == nil {
		return
	}

	that.sink.Render(that.state)
}

func mapInfoFromWire(wireMap protocol.WireMap) *entity.MapInfo {
	info := &entity.MapInfo{
		Name:      wireMap.Name,
		Width:     wireMap.Width,
		Height:    wireMap.Height,
		Start:     entity.Point{X: wireMap.Start.X, Y: wireMap.Start.Y},
		Obstacles: make(map[entity.Point]struct{}, len(wireMap.Obstacles)),
		Portals:   make(map[entity.Point]string, len(wireMap.Portals)),
	}

	if wireMap.End != nil {
		info.End = &entity.Point{X: wireMap.End.X, Y: wireMap.End.Y}
	}

	for _, obstacle := range wireMap.Obstacles {
		info.Obstacles[entity.Point{X: obstacle.X, Y: obstacle.Y}] = struct{}{}
	}

	for _, portal := range wireMap.Portals {
		info.Portals[entity.Point{X: portal.X, Y: portal.Y}] = portal.Name
	}

	return info
}

func rosterFromWire(players []protocol.WirePlayer) []entity.RosterEntry {
	entries := make([]entity.RosterEntry, 0, len(players))

	for _, player := range players {
		entries = append(entries, entity.RosterEntry{
			ID:       player.PlayerID,
			Name:     player.PlayerName,
			Position: entity.Point{X: player.X, Y: player.Y},
		})
	}

	return entries
}

func leaderboardFromWire(results []protocol.LeaderboardEntry) []entity.LeaderboardEntry {
	leaderboard := make([]entity.LeaderboardEntry, 0, len(results))

	for _, result := range results {
		leaderboard = append(leaderboard, entity.LeaderboardEntry{
			Rank:          result.Rank,
			PlayerID:      result.PlayerID,
			PlayerName:    result.PlayerName,
			TotalDistance: result.TotalDistance,
		})
	}

	return leaderboard
}

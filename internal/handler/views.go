package handler

import (
	"github.com/freeeve/pokebattle/internal/battle"
	"github.com/freeeve/pokebattle/internal/protocol"
)

// viewFor renders the perspective-adjusted wire view of one engine Result
// for the given participant. Both players' views come from the same Result
// value, so they can never disagree about the state they describe.
func viewFor(res *battle.Result, playerID string) protocol.BattleState {
	you, opp := res.Sides[0], res.Sides[1]
	if opp.PlayerID == playerID {
		you, opp = opp, you
	}
	return protocol.BattleState{
		BattleID:     res.BattleID,
		Message:      res.Message,
		YourInfo:     playerInfo(you),
		OpponentInfo: playerInfo(opp),
		BattleEnded:  res.Ended,
		Winner:       res.WinnerID,
	}
}

// matchFoundFor renders the pairing announcement for one participant.
func matchFoundFor(res *battle.Result, playerID string) protocol.MatchFound {
	you, opp := res.Sides[0], res.Sides[1]
	if opp.PlayerID == playerID {
		you, opp = opp, you
	}
	return protocol.MatchFound{
		BattleID:     res.BattleID,
		YourInfo:     playerInfo(you),
		OpponentInfo: playerInfo(opp),
	}
}

func playerInfo(s battle.SideState) protocol.PlayerInfo {
	team := make([]protocol.CreatureInfo, len(s.Team))
	for i, c := range s.Team {
		team[i] = protocol.CreatureInfo{
			Position:  c.Position,
			SpeciesID: c.SpeciesID,
			Name:      c.Name,
			CurrentHP: c.CurrentHP,
			MaxHP:     c.MaxHP,
			IsFainted: c.IsFainted,
		}
	}
	return protocol.PlayerInfo{
		PlayerID:       s.PlayerID,
		Username:       s.Username,
		Team:           team,
		ActivePosition: s.ActivePosition,
	}
}

// liveState is the perspective-free snapshot mirrored to Redis.
type liveState struct {
	BattleID string                `json:"battle_id"`
	Message  string                `json:"message"`
	Sides    []protocol.PlayerInfo `json:"sides"`
	Ended    bool                  `json:"ended"`
	Winner   string                `json:"winner,omitempty"`
	Turns    int                   `json:"turns"`
}

func liveStateOf(res *battle.Result) liveState {
	return liveState{
		BattleID: res.BattleID,
		Message:  res.Message,
		Sides:    []protocol.PlayerInfo{playerInfo(res.Sides[0]), playerInfo(res.Sides[1])},
		Ended:    res.Ended,
		Winner:   res.WinnerID,
		Turns:    res.Turns,
	}
}

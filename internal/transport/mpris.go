package transport

import (
	"sort"
	"strings"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	mprisPlayer     = "org.mpris.MediaPlayer2.Player"
	mprisStatusProp = mprisPlayer + ".PlaybackStatus"
)

// choosePlayer picks the bus name to control: a playing player first, then a paused one,
// then any player. Ties go to the lexically smallest name so the choice is stable.
func choosePlayer(names []string, status func(name string) string) string {
	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, mprisPrefix) {
			players = append(players, n)
		}
	}
	if len(players) == 0 {
		return ""
	}
	sort.Strings(players)

	rank := map[string]int{"Playing": 0, "Paused": 1}
	best, bestRank := "", 3
	for _, p := range players {
		r, ok := rank[status(p)]
		if !ok {
			r = 2
		}
		if r < bestRank {
			best, bestRank = p, r
		}
	}
	return best
}

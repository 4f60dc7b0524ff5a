package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Koshroy/voting-abm/internal/engine"
)

// printer writes run reports to the console.
type printer struct {
	w io.Writer
}

func (p printer) printResult(res engine.Result) {
	rep := res.Report
	fmt.Fprintf(p.w, "\nRun seed %d · policy %s · %d round(s) · %s voters · %s posts · %s\n",
		rep.Seed, rep.Policy, rep.Rounds,
		humanize.Comma(int64(rep.Stats.Voters)),
		humanize.Comma(int64(rep.Stats.Posts)),
		res.Duration.Round(time.Millisecond),
	)

	for _, post := range rep.TopPosts {
		fmt.Fprintf(p.w, "%3d. Post Score: %d | Opinion: %.6f\n", post.Rank, post.Score, post.Opinion)
	}

	fmt.Fprintf(p.w, "Extremist Opinion: %.6f\n", rep.Stats.ExtremistOpinion)
	fmt.Fprintf(p.w, "Num. of Extremist Users: %s\n", humanize.Comma(int64(rep.Stats.ExtremistCount)))
	fmt.Fprintf(p.w, "Top Opinion Mean: %.6f (gap to extremists %.6f)\n", rep.Stats.TopOpinionMean, rep.Stats.ConsensusGap)

	for _, v := range rep.Extremists {
		slog.Debug("extremist voter", "seed", rep.Seed, "voter_id", v.VoterID, "opinion", v.Opinion)
	}
}

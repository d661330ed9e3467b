package api

import (
	"net/http"
)

type tutorialSection struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	ExampleImage string `json:"exampleImage"`
}

// Static category guide shown before the first quiz.
var tutorialSections = []tutorialSection{
	{
		Category:     "Hard",
		Description:  "A hard sweep shows one long solid stripe spanning the top of the plot: a single haplotype carried most of the sample to fixation.",
		ExampleImage: "/SweepImages/Hard/sweeps_hard1.png",
	},
	{
		Category:     "Soft",
		Description:  "A soft sweep shows several distinct stripes starting from the top: multiple haplotypes rose together on a standing variant.",
		ExampleImage: "/SweepImages/Soft/sweeps_soft1.png",
	},
	{
		Category:     "Neutral",
		Description:  "A neutral region shows no strong vertical banding: haplotype frequencies stay scattered without a dominant block.",
		ExampleImage: "/SweepImages/Neutral/sweeps_neutral1.png",
	},
}

func (s *Server) handleTutorial(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{"sections": tutorialSections})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

package engine

// DefaultThemes returns the seed theme catalog used on first run and whenever
// a persisted snapshot carries no usable themes.
func DefaultThemes() []Theme {
	return []Theme{
		{
			ID:       "default_common",
			Name:     "Sweet Moments",
			Desc:     "Gentle tasks either player can draw",
			Audience: AudienceCommon,
			Tasks: []string{
				"Give your partner a 30-second hug",
				"Say three things you love about your partner",
				"Share your favorite memory of the two of you",
				"Give a one-minute shoulder massage",
				"Plan the next date night out loud, together",
				"Hold hands and keep eye contact for one minute",
			},
		},
		{
			ID:       "default_male",
			Name:     "For Him",
			Desc:     "Tasks drawn when his theme is the source",
			Audience: AudienceMale,
			Tasks: []string{
				"Cook or order her favorite snack tonight",
				"Write her a two-line note and read it aloud",
				"Do her least favorite chore this week",
				"Give a sincere compliment about something non-physical",
			},
		},
		{
			ID:       "default_female",
			Name:     "For Her",
			Desc:     "Tasks drawn when her theme is the source",
			Audience: AudienceFemale,
			Tasks: []string{
				"Pick the next movie you watch together",
				"Tell him one thing he did this week that made you smile",
				"Choose a song and share why it reminds you of him",
				"Give a sincere compliment about something non-physical",
			},
		},
	}
}

// initialPlayers builds the two fixed player identities from a configuration.
// Ids are always 0 and 1 in config order.
func initialPlayers(config *GameConfig) []Player {
	players := make([]Player, 0, PlayerCount)
	for i, setup := range config.Players {
		players = append(players, Player{
			ID:    i,
			Name:  setup.Name,
			Color: setup.Color,
			Role:  setup.Role,
		})
	}
	return players
}

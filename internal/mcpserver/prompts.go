package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "game_preview_prompt",
		Description: "Generate a game preview analysis prompt for two teams",
		Arguments: []*mcp.PromptArgument{
			{Name: "team1", Description: "First team name", Required: true},
			{Name: "team2", Description: "Second team name", Required: true},
		},
	}, gamePreviewHandler)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "season_recap_prompt",
		Description: "Generate a season recap analysis prompt for a team",
		Arguments: []*mcp.PromptArgument{
			{Name: "team_name", Description: "Team name", Required: true},
		},
	}, seasonRecapHandler)
}

func gamePreviewHandler(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	team1 := req.Params.Arguments["team1"]
	team2 := req.Params.Arguments["team2"]
	text := fmt.Sprintf(
		"Please provide a comprehensive game preview for %s vs %s. "+
			"Use the following tools to gather data:\n"+
			"1. get_team for both teams to get records and rankings\n"+
			"2. compare_teams to get a side-by-side statistical comparison\n"+
			"3. get_team_schedule for both teams to see recent results\n"+
			"4. get_rankings to see where they stand nationally\n\n"+
			"Then synthesize this data into a preview covering:\n"+
			"- Team records and rankings\n"+
			"- Key statistical matchups\n"+
			"- Recent form (last 5 games)\n"+
			"- Key players to watch\n"+
			"- Prediction with reasoning",
		team1, team2)
	return promptResult(text), nil
}

func seasonRecapHandler(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	team := req.Params.Arguments["team_name"]
	text := fmt.Sprintf(
		"Please provide a comprehensive season recap for %s. "+
			"Use the following tools to gather data:\n"+
			"1. get_team to get the team's final record and conference\n"+
			"2. get_team_stats for their season statistics\n"+
			"3. get_player_stats for individual player performance\n"+
			"4. get_team_schedule to review their full schedule and results\n"+
			"5. get_standings to see their conference finish\n\n"+
			"Then synthesize this data into a recap covering:\n"+
			"- Overall season record and conference finish\n"+
			"- Key team statistics and where they ranked\n"+
			"- Top performers and breakout players\n"+
			"- Biggest wins and toughest losses\n"+
			"- Season highlights and defining moments",
		team)
	return promptResult(text), nil
}

func promptResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

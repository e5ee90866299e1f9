package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// cityStatePattern matches "City, ST" with a capitalized two-letter
// state abbreviation, e.g. "Austin, TX".
var cityStatePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*,\s*[A-Z]{2}$`)

const maxTurns = 10

type briefingRequest struct {
	City string `json:"city"`
}

type briefingResponse struct {
	City      string `json:"city"`
	StationID string `json:"station_id"`
	Briefing  string `json:"briefing"`
	Error     string `json:"error"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "briefing server base URL")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Minute}
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Weather Briefing CLI")
	fmt.Println(`Enter a U.S. location as "City, ST" (e.g. "Austin, TX"), or 'q' to quit.`)

	for turn := 0; turn < maxTurns; turn++ {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "q") {
			fmt.Println("Goodbye!")
			return
		}

		if !cityStatePattern.MatchString(input) {
			fmt.Println(`That doesn't look like "City, ST". Try something like "Seattle, WA".`)
			continue
		}

		fmt.Println("Generating your briefing, this can take a minute...")

		briefing, err := fetchBriefing(client, *serverURL, input)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		fmt.Printf("\nBriefing for %s (station %s):\n\n%s\n", briefing.City, briefing.StationID, briefing.Briefing)
		return
	}

	fmt.Println("\nUnfortunately, no valid U.S. city and state was provided within the allowed turns. Please restart and try again. Goodbye!")
}

func fetchBriefing(client *http.Client, serverURL, city string) (briefingResponse, error) {
	var briefing briefingResponse

	payload, err := json.Marshal(briefingRequest{City: city})
	if err != nil {
		return briefing, err
	}

	resp, err := client.Post(serverURL+"/api/v1/briefing", "application/json", bytes.NewReader(payload))
	if err != nil {
		return briefing, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return briefing, err
	}

	if err = json.Unmarshal(body, &briefing); err != nil {
		return briefing, fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if briefing.Error != "" {
			return briefing, fmt.Errorf("%s", briefing.Error)
		}
		return briefing, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return briefing, nil
}

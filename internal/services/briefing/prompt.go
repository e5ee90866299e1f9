package briefing

import (
	"fmt"
	"strings"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
)

const noDataText = "No data available for this dataset."

const persona = "a professional, friendly meteorologist, communicating with an audience about their local weather"

const instructions = `First, analyze the provided table of weather forecast data for the city in question. It has the data from multiple sources. Use your expertise and knowledge about the weather for that location to provide a single, 7-day forecast of the weather in a table format along with any helpful commentary. For example, in cases where there is a large discrepancy between the two provided forecasts for a particular variable, consider providing commentary on its presence, potential root cause, and how you resolved it for the final forecast.
Second, analyze and compare the summary historical data for the particular variable with the forecast data.
Third, analyze and compare the daily historical data for the particular variable on that date with the forecast data.
For the second and third tasks, consider including anything noteworthy in the "Historical comparison" section, for example calling out large deviations for historical data. Use your well-informed, and expert opinion to decide when and how to highlight discrepancies. Is the forecast typical compared to history? Anything unusual? Look at different metrics like temperature, humidity, wind, wind chill, cloud cover, etc.
Fourth, for all of the weather variables, highlight important considerations that residents should take with regard to that variable including potential severe weather, unusual conditions, or impacts on daily life in the "Important considerations" section. For example, if there is extreme or unsafe temperatures, include a note to not leave children in cars, think about pets, and hydrate often.
Fifth, in the "About the data" section, list any data anomalies, limitations, or special considerations that had to be taken into account in your analysis (for example, averaging two different values for temperature). Also attribute the sources of your data here.
Sixth, the "Weather-related news" section: summarize the sentiment of the news articles that were found. Filter for only the most relevant to the weather and input location. Provide up to three high-quality news articles for reference.
Seventh, the "Social media posts" section: summarize the sentiment of the social media posts that were found. Filter for only the most relevant to the weather and input location. Provide up to three high-relevancy posts for reference.
If any data are conflicting or missing, please highlight and explain. If you are unsure of a conclusion, feel free to make it if you provide acknowledgement of limitations. If you don't know the answer, do not make one up or hallucinate a response; instead, acknowledge limitation(s) and recommend other actions to resolve. End your response politely and professionally.`

const outputFormat = `The final 7-day forecast should be formatted as a table. The table should have the forecast the date along the top of the table, and the rows should contain the predicted value for the particular variable.

Example table:
| Date                | 2025-05-28 | 2025-05-29 | 2025-05-30 | 2025-05-31 | 2025-06-01 | 2025-06-02 | 2025-06-03 |
|---------------------|------------|------------|------------|------------|------------|------------|------------|
| Max Temp (°C)       | 39.0       | 37.3       | 38.9       | 39.1       | 33.2       | 35.0       | 33.2       |
| Min Temp (°C)       | 22.7       | 22.3       | 22.9       | 27.4       | 24.9       | 22.4       | 24.0       |
| Precipitation (mm)  | 0.0        | 0.0        | 0.0        | 0.25       | 2.5        | 2.5        | 0.0        |
| Max Wind Speed (m/s)| 8.9        | 7.3        | 10.0       | 17.4       | 18.6       | 18.5       | 15.6       |

Below the table, include a commentary section, formatted as below with the following information:

Commentary:
**Historical comparison:**
- individual points in bulleted list.

**Important considerations:**
- individual points in bulleted list.

**About the data:**
- individual points in bulleted list.

**Weather-related news:**
- Short summary of sentiment of recent weather-related news.
- Three relevant news articles, if present.

**Social media posts:**
- Short summary of sentiment of recent social media posts.
- Three relevant social media posts, including title and URL.`

type promptInput struct {
	Location    models.Location
	StationID   string
	Forecast    *wrangle.Table
	Summary     *wrangle.Table
	Climatology *wrangle.Table
	News        string
	Social      string
}

// buildPrompt assembles the full completion prompt: persona, tasks,
// the three serialized datasets, the news and social text blocks, and
// the required response format.
func buildPrompt(in promptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s.\n\n", persona)
	fmt.Fprintf(&b, "Your task is to:\n%s\n\n", instructions)

	b.WriteString("Here are the datasets to assist your analysis:\n\n")
	fmt.Fprintf(&b, "Dataset 1 (merged forecast):\n%s\n\n", datasetText(in.Forecast))
	fmt.Fprintf(&b, "Dataset 2 (historical summary):\n%s\n\n", datasetText(in.Summary))
	fmt.Fprintf(&b, "Dataset 3 (daily climatology):\n%s\n\n", datasetText(in.Climatology))

	fmt.Fprintf(&b, "Recent weather-related news:\n%s\n\n", in.News)
	fmt.Fprintf(&b, "Recent social media posts:\n%s\n\n", in.Social)

	b.WriteString("Please provide your response strictly following this format:\n\n")
	fmt.Fprintf(&b, "City: %s\n", in.Location.City)
	fmt.Fprintf(&b, "Latitude: %f\n", in.Location.Latitude)
	fmt.Fprintf(&b, "Longitude: %f\n", in.Location.Longitude)
	fmt.Fprintf(&b, "NOAA Station ID: %s\n\n", in.StationID)
	b.WriteString(outputFormat)
	b.WriteString("\n")

	return b.String()
}

// datasetText serializes a table to record-oriented JSON, or an explicit
// no-data marker so the model never sees a bare empty list.
func datasetText(t *wrangle.Table) string {
	if t == nil || t.Empty() {
		return noDataText
	}
	s, err := t.RecordsJSON()
	if err != nil {
		return noDataText
	}
	return s
}

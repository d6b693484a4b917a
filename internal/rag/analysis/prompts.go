package analysis

// Prompt templates for the five analysis operations. Each gets filled with
// the dataset description, the assembled retrieval context and the
// task-specific free text, then goes to the provider as a single user turn.

const NoAdditionalContext = "No additional context available."

const dataAnalysisPrompt = `Analyze the following business data and provide comprehensive insights.

DATA CONTEXT:
%s

ADDITIONAL CONTEXT FROM KNOWLEDGE BASE:
%s

Please provide:
1. **Executive Summary**: A brief overview of the key findings
2. **Key Trends & Patterns**: Important trends identified in the data
3. **Anomalies & Concerns**: Any unusual patterns or potential issues
4. **Actionable Recommendations**: Specific, prioritized actions to take
5. **KPIs to Monitor**: Key performance indicators to track going forward
`

const questionAnswerPrompt = `Answer the following business question using the provided data and context.

DATA CONTEXT:
%s

RELEVANT CONTEXT FROM KNOWLEDGE BASE:
%s

QUESTION: %s

Provide a thorough, data-backed answer with specific references to the data when possible.
`

const visualizationSuggestionPrompt = `Based on the following data profile, suggest the most effective visualizations.

DATA PROFILE:
%s

For each visualization, provide:
1. Chart type (bar, line, scatter, pie, heatmap, etc.)
2. Which columns to use for X-axis, Y-axis, and any grouping
3. Why this visualization is insightful
4. What business question it answers

Suggest 3-5 visualizations, ordered by importance. Format each suggestion as:
- **Chart Type**: [type]
- **X-Axis**: [column]
- **Y-Axis**: [column]
- **Group By**: [column or None]
- **Title**: [descriptive title]
- **Insight**: [what it reveals]
`

const customAnalysisPrompt = `Perform the following custom analysis on the business data.

DATA CONTEXT:
%s

RELEVANT CONTEXT FROM KNOWLEDGE BASE:
%s

ANALYSIS REQUEST: %s

Provide detailed findings with supporting data points and actionable recommendations.
`

const defaultImagePrompt = "Analyze this business chart/image."

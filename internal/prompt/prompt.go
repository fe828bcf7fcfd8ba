// Package prompt builds the evaluation prompts sent to the models. The
// instruction text and the document content stay in separate channels for
// providers that support role-tagged messages, so document content cannot
// rewrite the instructions.
package prompt

const instructions = `Analyze this survey questionnaire focusing on the validity of each question. For each question, determine if it is "Valid" or "Not Valid" with specific reasons.

FIRST, EVALUATE THE GENERAL INSTRUCTIONS SECTION:
- Check whether the survey opens with general instructions for respondents
- Verify the response scale is correctly defined (4 - Strongly Agree, 3 - Agree, 2 - Disagree, 1 - Strongly Disagree)

SECOND, EVALUATE PART 2 AND PART 3:
- Part 2 and Part 3 must contain only variable definitions; flag any other content

CRITICAL: Pay special attention to tables in the survey. For each table:
- Check the top of the table for contextual statements like "As a young adult I..." or similar
- Identify the variable name from the contextual statement that applies to all questions in that table
- Determine if each question is appropriate given the variable context provided by the header statement
- EACH table MUST be a 4pts likert scale questions
- The Questions INCLUDING THE SUGGESTED ALTERNATIVE QUESTION must be POSITIVELY FRAMED IN THE CONTEXT OF THE VARIABLE DEFINITION.
- ALTERNATIVE QUESTION SHOULD NOT BE THE SAME AS OTHER QUESTIONS.

For each individual question, provide a "Valid" or "Not Valid" assessment with reasons including:
- Whether the question has duplicate meaning with other questions (with reference to table number and question item number of the duplicate)
- Whether the question is negatively phrased inappropriately relative to the variable
- Any other validity concerns

If a question is "Not Valid", suggest an alternative question based on the definition of each variable and the contextual statement that applies to the table.

You MUST respond in valid JSON format with this exact structure:
{
    "survey_general_instructions_analysis": {
        "instructions_present": true,
        "scale_correctly_defined": true,
        "scale_definition_text": "",
        "general_instructions_text": "",
        "issues_found": [],
        "recommendations": []
    },
    "survey_parts_analysis": {
        "part_2_has_only_definitions": true,
        "part_3_has_only_definitions": true,
        "part_2_content_summary": "",
        "part_3_content_summary": "",
        "part_2_issues": [],
        "part_3_issues": [],
        "part_2_recommendations": [],
        "part_3_recommendations": []
    },
    "individual_question_analysis": [
        {
            "question_id": "unique_identifier_for_question",
            "table_number": "table_number_containing_question",
            "item_number": "item_number_within_table",
            "variable_name": "name_of_the_variable_from_contextual_statement",
            "question_text": "exact_question_text",
            "validity": "Valid or Not Valid",
            "reason": "specific_reason_for_validity_assessment",
            "alternative_question": "suggested_alternative_question_if_invalid_or_empty_string_if_valid",
            "duplicates_with": [
                {
                    "table_number": "table_number_of_duplicate",
                    "item_number": "item_number_of_duplicate",
                    "question_text": "text_of_duplicate_question"
                }
            ]
        }
    ],
    "overall_assessment": "comprehensive_overall_assessment",
    "recommendations": [
        "specific_recommendation_1",
        "specific_recommendation_2"
    ]
}`

// System returns the instruction text for role-tagged providers. It never
// contains document content.
func System() string {
	return instructions
}

// User returns the user-role message: the document content alone.
func User(content string) string {
	return "Survey content:\n" + content
}

// Combined returns the single-prompt form for providers without role-tagged
// messages.
func Combined(content string) string {
	return instructions + "\n\nSurvey content:\n" + content
}

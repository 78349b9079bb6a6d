package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAITitleToneRequired = errors.New("title and tone are required")
	ErrAITopicRequired     = errors.New("topic is required")
	ErrAICommentRequired   = errors.New("comment content is required")
	ErrAIContentRequired   = errors.New("post content is required")
)

const (
	defaultWriterSystemPrompt = "You are a writing assistant for a technical blog. Follow the task instructions exactly and return only the requested output."
	defaultWriterTemperature  = 0.7
	defaultStructuredTemp     = 0.2
)

// PostIdea 描述一条 AI 生成的选题建议。
type PostIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	WordCount   int      `json:"wordCount"`
	Tone        string   `json:"tone"`
}

// PostSummary is the structured result of summarizing a post.
type PostSummary struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	WhatYouWillLearn []string `json:"what_you_will_learn"`
}

// AIWriterService drafts blog content through an injected chat client. It is
// a collaborator of the publishing flow: nothing in the query or aggregation
// services depends on it, posts only record whether they were AI generated.
type AIWriterService struct {
	client *aiChatClient
}

// NewAIWriterService 构造 AIWriterService，连接参数从配置注入。
func NewAIWriterService(baseURL, apiKey, model string) *AIWriterService {
	return &AIWriterService{client: newAIChatClient(baseURL, apiKey, model)}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIWriterService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖默认的 API 地址。
func (s *AIWriterService) SetBaseURL(base string) {
	s.client.SetBaseURL(base)
}

// GeneratePost drafts a full markdown post for a topic in the given tone.
func (s *AIWriterService) GeneratePost(ctx context.Context, title, tone string) (string, error) {
	title = strings.TrimSpace(title)
	tone = strings.TrimSpace(tone)
	if title == "" || tone == "" {
		return "", ErrAITitleToneRequired
	}

	prompt := blogPostPrompt(title, tone)
	logWriterExchange("post", "prompt", prompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: defaultWriterSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  defaultWriterTemperature,
	})
	if err != nil {
		return "", err
	}

	logWriterExchange("post", "response", result.Content)
	return result.Content, nil
}

// GenerateIdeas returns a list of post ideas for a topic.
func (s *AIWriterService) GenerateIdeas(ctx context.Context, topic string) ([]PostIdea, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrAITopicRequired
	}

	prompt := postIdeasPrompt(topic)
	logWriterExchange("ideas", "prompt", prompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: defaultWriterSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  defaultStructuredTemp,
	})
	if err != nil {
		return nil, err
	}
	logWriterExchange("ideas", "response", result.Content)

	var ideas []PostIdea
	if err := json.Unmarshal([]byte(stripCodeFence(result.Content)), &ideas); err != nil {
		return nil, fmt.Errorf("failed to parse generated ideas: %w", err)
	}
	return ideas, nil
}

// GenerateReply drafts a moderator reply to a reader comment.
func (s *AIWriterService) GenerateReply(ctx context.Context, author, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrAICommentRequired
	}

	prompt := replyPrompt(author, content)
	logWriterExchange("reply", "prompt", prompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: defaultWriterSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  defaultWriterTemperature,
	})
	if err != nil {
		return "", err
	}

	logWriterExchange("reply", "response", result.Content)
	return result.Content, nil
}

// GenerateSummary produces a structured title/summary/takeaways bundle for a
// post body.
func (s *AIWriterService) GenerateSummary(ctx context.Context, content string) (*PostSummary, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrAIContentRequired
	}

	prompt := summaryPrompt(content)
	logWriterExchange("summary", "prompt", prompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: defaultWriterSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  defaultStructuredTemp,
	})
	if err != nil {
		return nil, err
	}
	logWriterExchange("summary", "response", result.Content)

	var summary PostSummary
	if err := json.Unmarshal([]byte(stripCodeFence(result.Content)), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse generated summary: %w", err)
	}
	return &summary, nil
}

// stripCodeFence 去掉模型偶尔包裹在 JSON 外层的 ```json 代码块标记。
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func blogPostPrompt(title, tone string) string {
	return fmt.Sprintf(`Write a detailed blog post on the topic %q in a %q tone. Include relevant subheadings, examples, and a conclusion. The content should be engaging and informative, with an introduction that hooks the reader. The post should be approximately 1500-2000 words long, in markdown format with appropriate headings and subheadings.`, title, tone)
}

func postIdeasPrompt(topic string) string {
	return fmt.Sprintf(`Generate a list of 5 blog post ideas related to %s.
For each blog post idea, return:
- A catchy title
- A brief description (2-3 sentences) of the blog post idea
- 3 relevant tags/keywords associated with the blog post idea
- A suggested word count for the blog post
- The tone (e.g., casual, technical, beginner-friendly, formal, humorous)

Return the result as an array of objects in JSON format:
[
  {
    "title": "",
    "description": "",
    "tags": ["", "", ""],
    "wordCount": 1000,
    "tone": ""
  }
]
Important: ensure the JSON is properly formatted without any extra text or explanation.`, topic)
}

func replyPrompt(author, content string) string {
	name := strings.TrimSpace(author)
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf(`You are replying to a blog comment made by %s. The comment content is as follows:
%q
Generate a thoughtful and relevant reply to this comment. Ensure the reply is respectful, engaging, and adds value to the discussion. Keep the reply concise, ideally between 50 to 200 words.`, name, content)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(`You are an AI assistant tasked with generating a concise summary of a blog post.

Instructions:
- Read the provided blog post content carefully.
- Generate a short, catchy, SEO-friendly title (max 12 words) that encapsulates the main theme of the post.
- Write a clear, engaging summary of about 300 words.
- At the end of the summary, add a markdown section titled **## What you will learn** listing 3-5 key takeaways in bullet points.

Return the result in valid JSON format as follows:
{
  "title": "Short SEO-friendly Title",
  "summary": "300-word engaging summary with a markdown section for what you will learn",
  "what_you_will_learn": [
    "Key takeaway 1",
    "Key takeaway 2",
    "Key takeaway 3"
  ]
}
Only return valid JSON. Do not include markdown or code blocks around the JSON.

Blog post content:
"""%s"""`, content)
}

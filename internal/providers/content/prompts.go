package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"brandkit/internal/domain"
)

var platformGuidelines = map[domain.Platform]string{
	domain.PlatformInstagram: "Instagram: carousel-ready post with a hook, 2-3 mini-insights and a CTA. Use emojis naturally, keep text concise but valuable, include 3-5 hashtags.",
	domain.PlatformLinkedIn:  "LinkedIn: professional, business-focused, longer form, industry insights, networking.",
	domain.PlatformX:         "X (Twitter): concise, trending, hashtags, conversational, real-time engagement. The post is also read aloud as a short avatar video script.",
}

// languageName renders a locale as the English name of its language so the
// model is told "Write in Indonesian" rather than "Write in id".
func languageName(locale string) string {
	tag := localeTag(locale)
	if tag == language.Und {
		return "English"
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return "English"
}

func topicsSystemPrompt() string {
	return "You are a content strategy expert. Generate engaging, relevant topics that resonate with the target audience. Respond only with valid JSON."
}

func buildTopicsPrompt(req TopicRequest) string {
	p := req.Profile
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Generate exactly %d content topics for a %s targeting %s with a %s tone. ", topicCount(req.Count), coalesce(p.Profession, "professional"), coalesce(p.Audience, "a general audience"), coalesce(p.Tone, "friendly"))
	fmt.Fprintf(sb, "Write the topics in %s. ", languageName(req.Locale))
	sb.WriteString(`Respond strictly with JSON matching {"topics":string[]} without numbering or bullet points.`)
	return sb.String()
}

func buildImprovePrompt(req ImproveRequest) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Improve this content topic: %q. ", strings.TrimSpace(req.Topic))
	if f := strings.TrimSpace(req.Feedback); f != "" {
		fmt.Fprintf(sb, "User feedback: %q. ", f)
	}
	audience, tone := req.Audience, req.Tone
	if p := req.Profile; p != nil {
		audience = coalesce(audience, p.Audience)
		tone = coalesce(tone, p.Tone)
	}
	if audience != "" {
		fmt.Fprintf(sb, "Target audience: %s. ", audience)
	}
	if tone != "" {
		fmt.Fprintf(sb, "Tone: %s. ", tone)
	}
	fmt.Fprintf(sb, "Keep the core idea, make it more specific and engaging, and write it in %s. ", languageName(req.Locale))
	sb.WriteString(`Respond strictly with JSON matching {"topic":string} without numbering or quotes around the topic.`)
	return sb.String()
}

func templateSystemPrompt(req TemplateRequest) string {
	sb := &strings.Builder{}
	if req.Platform == domain.PlatformInstagram {
		sb.WriteString("You are a professional Instagram content creator specializing in carousel posts. Focus on providing real value in each slide.")
	} else {
		fmt.Fprintf(sb, "You are a professional content creator specializing in %s. Create engaging, platform-optimized content that drives engagement.", req.Platform)
	}
	if req.Profile != nil {
		if req.Profile.Tone != "" {
			fmt.Fprintf(sb, " Always maintain a %s tone.", req.Profile.Tone)
		}
		if req.Profile.Audience != "" {
			fmt.Fprintf(sb, " Write specifically for %s.", req.Profile.Audience)
		}
	}
	sb.WriteString(" Respond only with valid JSON.")
	return sb.String()
}

func buildTemplatePrompt(req TemplateRequest) string {
	sb := &strings.Builder{}
	if req.Platform == domain.PlatformInstagram {
		fmt.Fprintf(sb, "Create a carousel-ready Instagram post for the topic %q. ", req.Topic)
		sb.WriteString("Structure: 1. Hook/Title (slide 1) 2-4. Three mini-insights or examples, one per slide, each actionable 5. CTA slide. ")
		sb.WriteString("Use emojis naturally and end with 3-5 relevant hashtags. ")
	} else {
		fmt.Fprintf(sb, "Create a content template for the topic %q for %s. ", req.Topic, strings.ToUpper(string(req.Platform)))
		fmt.Fprintf(sb, "Platform guidelines: %s ", platformGuidelines[req.Platform])
		sb.WriteString("Give a compelling title (max 60 characters), the post content, and 3-5 relevant tags. ")
	}
	if p := req.Profile; p != nil {
		fmt.Fprintf(sb, "User preferences: target audience=%q, tone=%q, profession=%q. ", p.Audience, p.Tone, p.Profession)
	}
	fmt.Fprintf(sb, "Write in %s. ", languageName(req.Locale))
	sb.WriteString(`Respond strictly with JSON matching {"title":string,"content":string,"tags":string[]}.`)
	return sb.String()
}

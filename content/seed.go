package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Seed loads a small set of demo posts so a fresh install has published
// multilingual content to browse. Publish timestamps are staggered one day
// apart so ordered listings have a visible shape. Existing slugs are left
// alone, so calling Seed repeatedly is safe.
func Seed(ctx context.Context, store Store, ownerID uuid.UUID) error {
	type seedTranslation struct {
		language Language
		title    string
		body     string
		seo      SEOMetadata
	}
	type seedEntry struct {
		slug         string
		publishedAgo time.Duration
		translations []seedTranslation
	}

	entries := []seedEntry{
		{
			slug: "getting-started-with-react",
			translations: []seedTranslation{
				{
					language: LanguageChinese,
					title:    "React 入门指南",
					body: "# React 入门指南\n\nReact 是一个用于构建用户界面的 JavaScript 库。" +
						"本文介绍组件、Props、State 等核心概念，以及如何搭建第一个 React 应用。\n",
					seo: SEOMetadata{
						Title:       "React 入门指南 - 快速上手 React 开发",
						Description: "这篇指南将帮助你快速了解 React 的基础知识，包括组件、Props、State 等核心概念。",
						Keywords:    KeywordList{"React", "JavaScript", "前端开发", "组件", "入门指南"},
					},
				},
				{
					language: LanguageEnglish,
					title:    "Getting Started with React",
					body: "# Getting Started with React\n\nReact is a JavaScript library for building user interfaces. " +
						"This guide covers components, props, state, and how to bootstrap your first React application.\n",
					seo: SEOMetadata{
						Title:       "Getting Started with React - Quick Start Guide",
						Description: "This guide will help you quickly understand the basics of React, including components, props, and state.",
						Keywords:    KeywordList{"React", "JavaScript", "Frontend Development", "Components", "Beginner Guide"},
					},
				},
			},
		},
		{
			slug:         "typescript-best-practices",
			publishedAgo: 24 * time.Hour,
			translations: []seedTranslation{
				{
					language: LanguageChinese,
					title:    "TypeScript 最佳实践",
					body: "# TypeScript 最佳实践\n\n本文介绍类型定义、函数类型和错误处理等方面的技巧，" +
						"帮助你编写更加健壮、可维护的代码。\n",
					seo: SEOMetadata{
						Title:       "TypeScript 最佳实践 - 提高代码质量的技巧",
						Description: "本文介绍了 TypeScript 的最佳实践，包括类型定义、函数类型和错误处理等方面的技巧。",
						Keywords:    KeywordList{"TypeScript", "JavaScript", "最佳实践", "类型定义"},
					},
				},
				{
					language: LanguageEnglish,
					title:    "TypeScript Best Practices",
					body: "# TypeScript Best Practices\n\nPractical advice on type definitions, function typing, " +
						"and error handling that keeps a TypeScript codebase robust and maintainable.\n",
					seo: SEOMetadata{
						Title:       "TypeScript Best Practices - Writing Robust Code",
						Description: "Practical TypeScript advice covering type definitions, function typing, and error handling.",
						Keywords:    KeywordList{"TypeScript", "JavaScript", "Best Practices", "Type Definitions"},
					},
				},
			},
		},
		{
			slug:         "multilingual-website-development-guide",
			publishedAgo: 48 * time.Hour,
			translations: []seedTranslation{
				{
					language: LanguageChinese,
					title:    "多语言网站开发指南",
					body: "# 多语言网站开发指南\n\n本文介绍如何开发支持多语言的网站，" +
						"包括技术选择、架构设计、实现步骤和 SEO 最佳实践。\n",
					seo: SEOMetadata{
						Title:       "多语言网站开发指南 - 从技术选择到实现",
						Description: "本文介绍了如何开发支持多语言的网站，包括技术选择、架构设计和 SEO 最佳实践。",
						Keywords:    KeywordList{"多语言", "国际化", "i18n", "网站开发", "SEO"},
					},
				},
				{
					language: LanguageEnglish,
					title:    "Multilingual Website Development Guide",
					body: "# Multilingual Website Development Guide\n\nHow to build a website that serves several languages, " +
						"from picking a stack and structuring translations to getting the SEO details right.\n",
					seo: SEOMetadata{
						Title:       "Multilingual Website Development Guide - From Stack to SEO",
						Description: "How to build a multilingual website, covering stack selection, translation structure, and SEO.",
						Keywords:    KeywordList{"Multilingual", "Internationalization", "i18n", "Web Development", "SEO"},
					},
				},
			},
		},
	}

	now := time.Now().UTC()

	for _, entry := range entries {
		record, err := store.GetContentBySlug(ctx, entry.slug)
		switch {
		case err == nil:
			// already seeded
		case errors.Is(err, ErrNotFound):
			publishedAt := now.Add(-entry.publishedAgo)
			record, err = store.CreateContent(ctx, &Content{
				ID:              uuid.New(),
				OwnerID:         ownerID,
				Slug:            entry.slug,
				DefaultLanguage: LanguageChinese,
				Published:       true,
				PublishedAt:     &publishedAt,
				CreatedAt:       publishedAt,
				UpdatedAt:       publishedAt,
				Translations:    []*ContentTranslation{},
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		for _, tr := range entry.translations {
			if record.HasTranslation(tr.language) {
				continue
			}
			if _, err := store.CreateTranslation(ctx, &ContentTranslation{
				ID:        uuid.New(),
				ContentID: record.ID,
				Language:  tr.language,
				Title:     tr.title,
				Body:      tr.body,
				SEO:       tr.seo.Clone(),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil && !errors.Is(err, ErrTranslationExists) {
				return err
			}
		}
	}

	return nil
}

// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"sync"

	"github.com/recommendarr/recommendarr/internal/recommend"
)

// managedConversation pairs a conversation with its own lock.
// Conversations are not safe for concurrent use, so rounds against the
// same user and media type are serialized; rounds against distinct
// conversations run in parallel.
type managedConversation struct {
	mu   sync.Mutex
	conv *recommend.Conversation
}

// conversationRegistry keeps one live conversation per user and media
// type so follow-up rounds extend the model's own context instead of
// starting over. Conversations are in-process state; a restart simply
// begins fresh rounds.
type conversationRegistry struct {
	mu    sync.Mutex
	convs map[string]*managedConversation
}

func newConversationRegistry() *conversationRegistry {
	return &conversationRegistry{
		convs: make(map[string]*managedConversation),
	}
}

func conversationKey(user string, mediaType recommend.MediaType) string {
	return user + "|" + string(mediaType)
}

// get returns the managed conversation for the user and media type,
// creating it on first use.
func (r *conversationRegistry) get(user string, mediaType recommend.MediaType) *managedConversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := conversationKey(user, mediaType)
	mc, ok := r.convs[key]
	if !ok {
		mc = &managedConversation{conv: recommend.NewConversation(mediaType)}
		r.convs[key] = mc
	}
	return mc
}

// reset discards the conversation so the next round starts clean.
func (r *conversationRegistry) reset(user string, mediaType recommend.MediaType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.convs, conversationKey(user, mediaType))
}

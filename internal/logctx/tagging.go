package logctx

import (
	"context"
	"sensorweb/internal/global"
	"slices"
)

// Returns a child context with newTag appended to the tag list.
// Parent list is never mutated.
func AppendCtxTag(ctx context.Context, newTag string) (newCtx context.Context) {
	tags := append(GetTagList(ctx), newTag)
	newCtx = context.WithValue(ctx, global.LogTagsKey, tags)
	return
}

// Returns a child context without the most specific tag
func RemoveLastCtxTag(ctx context.Context) (newCtx context.Context) {
	tags := GetTagList(ctx)
	if len(tags) > 0 {
		tags = tags[:len(tags)-1]
	}
	newCtx = context.WithValue(ctx, global.LogTagsKey, tags)
	return
}

// Replaces the entire tag list
func OverwriteCtxTag(ctx context.Context, newList []string) (newCtx context.Context) {
	newCtx = context.WithValue(ctx, global.LogTagsKey, slices.Clone(newList))
	return
}

// Copy of the tag list from context, empty when none is set
func GetTagList(ctx context.Context) (tags []string) {
	stored, ok := ctx.Value(global.LogTagsKey).([]string)
	if !ok {
		tags = []string{}
		return
	}
	tags = slices.Clone(stored)
	return
}

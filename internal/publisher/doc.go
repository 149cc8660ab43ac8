// Package publisher pushes scheduled posts to Instagram. Photos without a
// hosted URL are first uploaded to Cloudinary, then a single-image or
// carousel container is created through the Meta Graph API, polled until
// processing finishes, and published. On success the post is stamped with
// the publish time and the Instagram media ID and committed to the
// published stage.
package publisher

// Command photopost is the CLI for the photo-to-post pipeline: it registers
// approved posts, runs the scheduling engine, renders the calendar, and
// publishes due posts to Instagram.
package main

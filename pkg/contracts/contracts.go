// Package contracts holds documented provider responses that the adapters
// must keep parsing. Each constant follows the published schema of its
// endpoint and keeps the fields socialdash reads.
package contracts

// YouTubeChannels is a channels.list response with part=contentDetails,snippet.
const YouTubeChannels = `{
  "kind": "youtube#channelListResponse",
  "etag": "etag",
  "pageInfo": {"totalResults": 1, "resultsPerPage": 1},
  "items": [
    {
      "kind": "youtube#channel",
      "id": "UC_x5XG1OV2P6uZZ5FSM9Ttw",
      "snippet": {"title": "Google for Developers"},
      "contentDetails": {
        "relatedPlaylists": {"likes": "", "uploads": "UU_x5XG1OV2P6uZZ5FSM9Ttw"}
      }
    }
  ]
}`

// YouTubePlaylistItems is a playlistItems.list response with part=snippet,contentDetails.
const YouTubePlaylistItems = `{
  "kind": "youtube#playlistItemListResponse",
  "nextPageToken": "EAAaBlBUOkNBVQ",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#playlistItem",
      "id": "VVVfeDVYRzFPVjJQNnVaWjVGU005VHR3LmFiYw",
      "snippet": {
        "publishedAt": "2024-03-01T16:00:06Z",
        "channelId": "UC_x5XG1OV2P6uZZ5FSM9Ttw",
        "title": "What's new in Go",
        "description": "Release highlights",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/abc/default.jpg", "width": 120, "height": 90},
          "medium": {"url": "https://i.ytimg.com/vi/abc/mqdefault.jpg", "width": 320, "height": 180}
        },
        "channelTitle": "Google for Developers",
        "playlistId": "UU_x5XG1OV2P6uZZ5FSM9Ttw",
        "position": 0,
        "resourceId": {"kind": "youtube#video", "videoId": "abc"}
      },
      "contentDetails": {"videoId": "abc", "videoPublishedAt": "2024-03-01T16:00:06Z"}
    },
    {
      "kind": "youtube#playlistItem",
      "id": "VVVfeDVYRzFPVjJQNnVaWjVGU005VHR3LmRlZg",
      "snippet": {
        "publishedAt": "2024-02-20T09:30:00Z",
        "title": "Private video",
        "description": "This video is private.",
        "thumbnails": {},
        "channelTitle": "Google for Developers",
        "position": 1,
        "resourceId": {"kind": "youtube#video", "videoId": "def"}
      },
      "contentDetails": {"videoId": "def"}
    }
  ]
}`

// YouTubeVideos is a videos.list response with part=statistics,snippet,contentDetails.
// Statistics are strings; likeCount is omitted when the owner hides it.
const YouTubeVideos = `{
  "kind": "youtube#videoListResponse",
  "items": [
    {
      "kind": "youtube#video",
      "id": "abc",
      "snippet": {"title": "What's new in Go"},
      "contentDetails": {"duration": "PT12M3S"},
      "statistics": {"viewCount": "15230", "likeCount": "812", "favoriteCount": "0", "commentCount": "64"}
    },
    {
      "kind": "youtube#video",
      "id": "def",
      "statistics": {"viewCount": "10", "favoriteCount": "0", "commentCount": "0"}
    }
  ],
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2}
}`

// FacebookPagePosts is a /{page-id}/posts response for the fields the
// Facebook adapter requests.
const FacebookPagePosts = `{
  "data": [
    {
      "id": "20531316728_10158865532706729",
      "message": "Introducing new ways to connect.",
      "permalink_url": "https://www.facebook.com/20531316728/posts/10158865532706729",
      "created_time": "2024-03-04T17:00:01+0000",
      "from": {"name": "Facebook App", "id": "20531316728"},
      "attachments": {
        "data": [
          {
            "media_type": "photo",
            "media": {"image": {"height": 720, "src": "https://scontent.xx.fbcdn.net/v/photo.jpg", "width": 720}},
            "url": "https://www.facebook.com/photo/?fbid=1"
          }
        ]
      },
      "likes": {"data": [], "summary": {"total_count": 1520, "can_like": true, "has_liked": false}},
      "comments": {"data": [], "summary": {"order": "ranked", "total_count": 230, "can_comment": true}}
    },
    {
      "id": "20531316728_10158860000000000",
      "created_time": "2024-03-01T12:00:00+0000",
      "from": {"name": "Facebook App", "id": "20531316728"},
      "likes": {"data": [], "summary": {"total_count": 3}},
      "comments": {"data": [], "summary": {"total_count": 0}}
    }
  ],
  "paging": {
    "cursors": {"before": "QVFIU", "after": "QVFIUm"},
    "next": "https://graph.facebook.com/v19.0/20531316728/posts?after=QVFIUm"
  }
}`

// InstagramMedia is a /{ig-user-id}/media response for the fields the
// Instagram adapter requests. Images carry no thumbnail_url.
const InstagramMedia = `{
  "data": [
    {
      "id": "17895695668004550",
      "caption": "Behind the scenes #go",
      "media_type": "VIDEO",
      "media_url": "https://video.cdninstagram.com/v/reel.mp4",
      "thumbnail_url": "https://scontent.cdninstagram.com/v/reel.jpg",
      "permalink": "https://www.instagram.com/reel/C4abc/",
      "timestamp": "2024-03-03T20:15:42+0000",
      "comments_count": 18,
      "like_count": 402
    },
    {
      "id": "17895695668004551",
      "media_type": "IMAGE",
      "media_url": "https://scontent.cdninstagram.com/v/photo.jpg",
      "permalink": "https://www.instagram.com/p/C4def/",
      "timestamp": "2024-03-02T08:00:00+0000",
      "comments_count": 0,
      "like_count": 57
    }
  ],
  "paging": {"cursors": {"before": "a", "after": "b"}}
}`

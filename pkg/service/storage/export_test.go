package storage

var ObjectKey = objectKey
